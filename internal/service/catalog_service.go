package service

import (
	"context"
	"strings"

	"github.com/user/moovie-reviews/internal/filter"
	"github.com/user/moovie-reviews/internal/logging"
	"github.com/user/moovie-reviews/internal/model"
	"github.com/user/moovie-reviews/internal/repository"
)

// MsgInternal 查询类接口的通用错误信息
const MsgInternal = "Internal server error."

// MovieListQuery 电影列表参数
type MovieListQuery struct {
	Page
	Filters    *filter.Filters   `json:"filters"`
	SortOption filter.SortOption `json:"sortOption"`
	Search     string            `json:"search"`
}

// CatalogService 电影与评论查询
type CatalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

// Movies 按筛选、搜索、排序分页查询电影，附带评论
func (s *CatalogService) Movies(ctx context.Context, q MovieListQuery) ([]*model.Movie, error) {
	skip, limit, err := q.Page.Ints()
	if err != nil {
		return nil, err
	}

	sortOption := q.SortOption
	if sortOption == "" {
		sortOption = filter.DefaultSort
	}

	movies, err := s.store.Movies().Find(ctx, repository.MovieQuery{
		Where: filter.Compose(q.Filters, q.Search),
		Sort:  sortOption,
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("查询电影列表失败")
		return nil, Internal(MsgInternal)
	}
	if err := s.attachReviews(ctx, movies); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("加载电影评论失败")
		return nil, Internal(MsgInternal)
	}
	return movies, nil
}

// Movie 电影详情，不存在时返回 (nil, nil)
func (s *CatalogService) Movie(ctx context.Context, id int) (*model.Movie, error) {
	movie, err := s.store.Movies().FindByID(ctx, id)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("movie_id", id).Msg("查询电影失败")
		return nil, Internal(MsgInternal)
	}
	if movie == nil {
		return nil, nil
	}
	if err := s.attachReviews(ctx, []*model.Movie{movie}); err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("movie_id", id).Msg("加载电影评论失败")
		return nil, Internal(MsgInternal)
	}
	return movie, nil
}

// LatestReviews 全站最新评论，附带所属电影
func (s *CatalogService) LatestReviews(ctx context.Context, page Page) ([]*model.Review, error) {
	skip, limit, err := page.Ints()
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.Reviews().Latest(ctx, skip, limit)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("查询最新评论失败")
		return nil, Internal(MsgInternal)
	}
	if err := s.attachMovies(ctx, reviews); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("加载评论所属电影失败")
		return nil, Internal(MsgInternal)
	}
	return reviews, nil
}

// UserReviews 某个用户的评论，最新的在前
func (s *CatalogService) UserReviews(ctx context.Context, username string, page Page) ([]*model.Review, error) {
	skip, limit, err := page.Ints()
	if err != nil {
		return nil, err
	}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	// 评论保存的是去掉首尾空白的用户名
	username = strings.TrimSpace(username)
	reviews, err := s.store.Reviews().ListByUsername(ctx, username, skip, limit)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("username", username).Msg("查询用户评论失败")
		return nil, Internal(MsgInternal)
	}
	if err := s.attachMovies(ctx, reviews); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("加载评论所属电影失败")
		return nil, Internal(MsgInternal)
	}
	return reviews, nil
}

// attachReviews 按引用列表顺序填充 Reviews，一次批量查询
func (s *CatalogService) attachReviews(ctx context.Context, movies []*model.Movie) error {
	var ids []string
	for _, m := range movies {
		ids = append(ids, m.ReviewIDs...)
	}
	reviews, err := s.store.Reviews().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*model.Review, len(reviews))
	for _, r := range reviews {
		byID[r.ID] = r
	}
	for _, m := range movies {
		m.Reviews = make([]*model.Review, 0, len(m.ReviewIDs))
		for _, id := range m.ReviewIDs {
			if r, ok := byID[id]; ok {
				m.Reviews = append(m.Reviews, r)
			}
		}
	}
	return nil
}

func (s *CatalogService) attachMovies(ctx context.Context, reviews []*model.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	ids := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.MovieID)
	}
	movies, err := s.store.Movies().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, r := range reviews {
		r.Movie = movies[r.MovieID]
	}
	return nil
}
