package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/user/moovie-reviews/internal/filter"
	"github.com/user/moovie-reviews/internal/model"
)

// MemoryStore 内存存储，用于本地演示和端到端测试
//
// 事务期间持有写锁，相当于串行化隔离；写入总是替换对象而不是原地修改，
// 因此浅拷贝 map 即可作为回滚快照。
type MemoryStore struct {
	mu      sync.RWMutex
	movies  map[int]*model.Movie
	reviews map[string]*model.Review
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		movies:  make(map[int]*model.Movie),
		reviews: make(map[string]*model.Review),
	}
}

func (s *MemoryStore) Movies() MovieStore { return &memMovies{s: s} }

func (s *MemoryStore) Reviews() ReviewStore { return &memReviews{s: s} }

// Transaction 执行 fn，返回错误或 panic 时恢复到事务开始前的状态
func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	movies := make(map[int]*model.Movie, len(s.movies))
	for k, v := range s.movies {
		movies[k] = v
	}
	reviews := make(map[string]*model.Review, len(s.reviews))
	for k, v := range s.reviews {
		reviews[k] = v
	}

	committed := false
	defer func() {
		if !committed {
			s.movies = movies
			s.reviews = reviews
		}
	}()

	if err := fn(&memTx{s: s}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	committed = true
	return nil
}

// memTx 事务视图，调用方已持有写锁
type memTx struct {
	s *MemoryStore
}

func (t *memTx) Movies() MovieStore { return &memMovies{s: t.s, locked: true} }

func (t *memTx) Reviews() ReviewStore { return &memReviews{s: t.s, locked: true} }

func (t *memTx) Transaction(_ context.Context, fn func(tx Store) error) error {
	return fn(t)
}

type memMovies struct {
	s      *MemoryStore
	locked bool
}

func (m *memMovies) rlock() func() {
	if m.locked {
		return func() {}
	}
	m.s.mu.RLock()
	return m.s.mu.RUnlock
}

func (m *memMovies) lock() func() {
	if m.locked {
		return func() {}
	}
	m.s.mu.Lock()
	return m.s.mu.Unlock
}

func (m *memMovies) FindByID(_ context.Context, id int) (*model.Movie, error) {
	defer m.rlock()()
	if movie, ok := m.s.movies[id]; ok {
		return cloneMovie(movie), nil
	}
	return nil, nil
}

func (m *memMovies) FindForUpdate(ctx context.Context, id int) (*model.Movie, error) {
	movie, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrNotFound
	}
	return movie, nil
}

func (m *memMovies) FindByIDs(_ context.Context, ids []int) (map[int]*model.Movie, error) {
	defer m.rlock()()
	result := make(map[int]*model.Movie, len(ids))
	for _, id := range ids {
		if movie, ok := m.s.movies[id]; ok {
			result[id] = cloneMovie(movie)
		}
	}
	return result, nil
}

func (m *memMovies) Find(_ context.Context, q MovieQuery) ([]*model.Movie, error) {
	defer m.rlock()()
	matched := m.matching(q.Where)
	sort.SliceStable(matched, func(i, j int) bool {
		return q.Sort.Less(matched[i], matched[j])
	})
	if q.Skip >= len(matched) {
		return []*model.Movie{}, nil
	}
	matched = matched[q.Skip:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	result := make([]*model.Movie, len(matched))
	for i, movie := range matched {
		result[i] = cloneMovie(movie)
	}
	return result, nil
}

func (m *memMovies) Count(_ context.Context, where filter.Predicate) (int64, error) {
	defer m.rlock()()
	return int64(len(m.matching(where))), nil
}

func (m *memMovies) matching(where filter.Predicate) []*model.Movie {
	matched := make([]*model.Movie, 0, len(m.s.movies))
	for _, movie := range m.s.movies {
		if where == nil || where.Match(movie) {
			matched = append(matched, movie)
		}
	}
	return matched
}

func (m *memMovies) DistinctGenres(_ context.Context) ([]string, error) {
	defer m.rlock()()
	seen := make(map[string]struct{})
	for _, movie := range m.s.movies {
		for _, g := range movie.Genres {
			seen[g] = struct{}{}
		}
	}
	genres := make([]string, 0, len(seen))
	for g := range seen {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres, nil
}

func (m *memMovies) DistinctDecades(_ context.Context) ([]int, error) {
	defer m.rlock()()
	seen := make(map[int]struct{})
	for _, movie := range m.s.movies {
		seen[movie.Decade] = struct{}{}
	}
	decades := make([]int, 0, len(seen))
	for d := range seen {
		decades = append(decades, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(decades)))
	return decades, nil
}

func (m *memMovies) PushReview(_ context.Context, movieID int, reviewID string, voteAverage float64, voteCount int) error {
	defer m.lock()()
	movie, ok := m.s.movies[movieID]
	if !ok {
		return ErrNotFound
	}
	next := cloneMovie(movie)
	next.ReviewIDs = append([]string{reviewID}, next.ReviewIDs...)
	next.VoteAverage = voteAverage
	next.VoteCount = voteCount
	m.s.movies[movieID] = next
	return nil
}

func (m *memMovies) PullReview(_ context.Context, movieID int, reviewID string, voteAverage float64, voteCount int) error {
	defer m.lock()()
	movie, ok := m.s.movies[movieID]
	if !ok {
		return ErrNotFound
	}
	next := cloneMovie(movie)
	refs := next.ReviewIDs[:0]
	for _, id := range next.ReviewIDs {
		if id != reviewID {
			refs = append(refs, id)
		}
	}
	next.ReviewIDs = refs
	next.VoteAverage = voteAverage
	next.VoteCount = voteCount
	m.s.movies[movieID] = next
	return nil
}

func (m *memMovies) Upsert(_ context.Context, movie *model.Movie) error {
	defer m.lock()()
	movie.Decade = model.DecadeOf(movie.ReleaseDate)
	next := cloneMovie(movie)
	if existing, ok := m.s.movies[movie.ID]; ok {
		next.VoteAverage = existing.VoteAverage
		next.VoteCount = existing.VoteCount
		next.ReviewIDs = append([]string(nil), existing.ReviewIDs...)
	}
	next.Reviews = nil
	m.s.movies[movie.ID] = next
	return nil
}

type memReviews struct {
	s      *MemoryStore
	locked bool
}

func (r *memReviews) rlock() func() {
	if r.locked {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r *memReviews) lock() func() {
	if r.locked {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memReviews) FindByID(_ context.Context, id string) (*model.Review, error) {
	defer r.rlock()()
	if review, ok := r.s.reviews[id]; ok {
		return cloneReview(review), nil
	}
	return nil, nil
}

func (r *memReviews) FindByIDs(_ context.Context, ids []string) ([]*model.Review, error) {
	defer r.rlock()()
	result := make([]*model.Review, 0, len(ids))
	for _, id := range ids {
		if review, ok := r.s.reviews[id]; ok {
			result = append(result, cloneReview(review))
		}
	}
	return result, nil
}

func (r *memReviews) Latest(_ context.Context, skip, limit int) ([]*model.Review, error) {
	defer r.rlock()()
	return r.page(func(*model.Review) bool { return true }, skip, limit), nil
}

func (r *memReviews) ListByUsername(_ context.Context, username string, skip, limit int) ([]*model.Review, error) {
	defer r.rlock()()
	return r.page(func(rev *model.Review) bool { return rev.Username == username }, skip, limit), nil
}

func (r *memReviews) page(keep func(*model.Review) bool, skip, limit int) []*model.Review {
	matched := make([]*model.Review, 0)
	for _, review := range r.s.reviews {
		if keep(review) {
			matched = append(matched, review)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return strings.Compare(matched[i].ID, matched[j].ID) < 0
	})
	if skip >= len(matched) {
		return []*model.Review{}
	}
	matched = matched[skip:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	result := make([]*model.Review, len(matched))
	for i, review := range matched {
		result[i] = cloneReview(review)
	}
	return result
}

func (r *memReviews) Create(_ context.Context, review *model.Review) error {
	defer r.lock()()
	r.s.reviews[review.ID] = cloneReview(review)
	return nil
}

func (r *memReviews) Delete(_ context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.s.reviews[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

func cloneMovie(m *model.Movie) *model.Movie {
	c := *m
	c.Genres = append([]string(nil), m.Genres...)
	c.ProductionCompanies = append([]string(nil), m.ProductionCompanies...)
	c.ProductionCountries = append([]string(nil), m.ProductionCountries...)
	c.SpokenLanguages = append([]string(nil), m.SpokenLanguages...)
	c.Keywords = append([]string(nil), m.Keywords...)
	c.ReviewIDs = append([]string(nil), m.ReviewIDs...)
	c.Reviews = nil
	return &c
}

func cloneReview(r *model.Review) *model.Review {
	c := *r
	c.Movie = nil
	return &c
}
