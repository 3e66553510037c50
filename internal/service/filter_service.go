package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/user/moovie-reviews/internal/config"
	"github.com/user/moovie-reviews/internal/filter"
	"github.com/user/moovie-reviews/internal/logging"
	"github.com/user/moovie-reviews/internal/metrics"
	"github.com/user/moovie-reviews/internal/model"
	"github.com/user/moovie-reviews/internal/repository"
	"github.com/user/moovie-reviews/internal/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	genresCacheKey  = "filter:genres"
	decadesCacheKey = "filter:decades"
)

// FilterService 筛选面板的命中计数
type FilterService struct {
	store       repository.Store
	counts      *utils.TTLCache[*filter.Counts]
	lists       *cache.Cache
	sf          singleflight.Group
	generation  atomic.Uint64
	concurrency int
}

// NewFilterService 创建筛选服务
func NewFilterService(store repository.Store, cfg config.FilterConfig) (*FilterService, error) {
	counts, err := utils.NewTTLCache[*filter.Counts](cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("创建命中计数缓存失败: %w", err)
	}
	return &FilterService{
		store:       store,
		counts:      counts,
		lists:       utils.NewListCache(cfg.CacheTTL),
		concurrency: cfg.Concurrency,
	}, nil
}

// Invalidate 丢弃已缓存的命中计数，评分变化会让电影换到别的评分分档
func (s *FilterService) Invalidate() {
	s.generation.Add(1)
	s.counts.Clear()
}

// HitCounts 计算每个维度每个候选值的命中数
//
// 每个候选值的命中数等于：把该候选值应用到当前筛选之后的电影数量。
// 相同参数的并发请求共享一次计算。
func (s *FilterService) HitCounts(ctx context.Context, applied *filter.Filters, search string) (*filter.Counts, error) {
	gen := s.generation.Load()
	key, err := countsKey(gen, applied, search)
	if err != nil {
		return nil, Internal(MsgInternal)
	}

	if counts, ok := s.counts.Get(key); ok {
		metrics.RecordFilterCache(true)
		return counts, nil
	}
	metrics.RecordFilterCache(false)

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		// 共享计算不随单个请求取消
		counts, err := s.compute(context.WithoutCancel(ctx), applied, search)
		if err != nil {
			return nil, err
		}
		if s.generation.Load() == gen {
			s.counts.Set(key, counts)
		}
		return counts, nil
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("计算筛选命中数失败")
		return nil, Internal(MsgInternal)
	}
	return v.(*filter.Counts), nil
}

func countsKey(gen uint64, applied *filter.Filters, search string) (string, error) {
	b, err := json.Marshal(struct {
		Gen     uint64          `json:"g"`
		Filters *filter.Filters `json:"f"`
		Search  string          `json:"s"`
	}{gen, applied.Clone(), search})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// candidate 某个维度的一个候选值；reuse 为 true 时直接使用基准命中数
type candidate struct {
	name    string
	filters *filter.Filters
	reuse   bool
}

func (s *FilterService) compute(ctx context.Context, applied *filter.Filters, search string) (*filter.Counts, error) {
	start := time.Now()
	defer func() { metrics.RecordHitCount(time.Since(start)) }()

	movies := s.store.Movies()
	baseline, err := movies.Count(ctx, filter.Compose(applied, search))
	if err != nil {
		return nil, fmt.Errorf("统计当前筛选失败: %w", err)
	}

	genres, err := s.distinctGenres(ctx)
	if err != nil {
		return nil, err
	}
	decades, err := s.distinctDecades(ctx)
	if err != nil {
		return nil, err
	}

	var candidates [len(filter.Facets)][]candidate
	for _, g := range genres {
		if contains(applied.Get(filter.FacetGenre), g) {
			candidates[filter.FacetGenre] = append(candidates[filter.FacetGenre], candidate{name: g, reuse: true})
			continue
		}
		selected := append(append([]string(nil), applied.Get(filter.FacetGenre)...), g)
		candidates[filter.FacetGenre] = append(candidates[filter.FacetGenre], candidate{
			name:    g,
			filters: applied.With(filter.FacetGenre, selected),
		})
	}
	candidates[filter.FacetRating] = replacing(applied, filter.FacetRating, filter.RatingBuckets)
	candidates[filter.FacetDecade] = replacing(applied, filter.FacetDecade, decades)
	candidates[filter.FacetStatus] = replacing(applied, filter.FacetStatus, model.Statuses)
	candidates[filter.FacetRuntime] = replacing(applied, filter.FacetRuntime, filter.RuntimeBuckets)

	var hits [len(filter.Facets)][]filter.Hit
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, facet := range filter.Facets {
		hits[facet] = make([]filter.Hit, len(candidates[facet]))
		for i, c := range candidates[facet] {
			if c.reuse {
				hits[facet][i] = filter.Hit{Name: c.name, Hits: baseline}
				continue
			}
			g.Go(func() error {
				n, err := movies.Count(gctx, filter.Compose(c.filters, search))
				if err != nil {
					return fmt.Errorf("统计 %s=%s 失败: %w", facet, c.name, err)
				}
				hits[facet][i] = filter.Hit{Name: c.name, Hits: n}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := &filter.Counts{}
	for _, facet := range filter.Facets {
		counts.Set(facet, hits[facet])
	}
	return counts, nil
}

// replacing 用单个候选值替换该维度的已选值
func replacing(applied *filter.Filters, facet filter.Facet, names []string) []candidate {
	out := make([]candidate, len(names))
	for i, name := range names {
		out[i] = candidate{name: name, filters: applied.With(facet, []string{name})}
	}
	return out
}

func (s *FilterService) distinctGenres(ctx context.Context) ([]string, error) {
	if v, ok := s.lists.Get(genresCacheKey); ok {
		return v.([]string), nil
	}
	genres, err := s.store.Movies().DistinctGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询类型列表失败: %w", err)
	}
	s.lists.SetDefault(genresCacheKey, genres)
	return genres, nil
}

// distinctDecades 从新到旧，格式为 "1990s"
func (s *FilterService) distinctDecades(ctx context.Context) ([]string, error) {
	if v, ok := s.lists.Get(decadesCacheKey); ok {
		return v.([]string), nil
	}
	decades, err := s.store.Movies().DistinctDecades(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询年代列表失败: %w", err)
	}
	names := make([]string, len(decades))
	for i, d := range decades {
		names[i] = filter.FormatDecade(d)
	}
	s.lists.SetDefault(decadesCacheKey, names)
	return names, nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
