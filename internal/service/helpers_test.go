package service

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/moovie-reviews/internal/model"
	"github.com/user/moovie-reviews/internal/repository"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// newTestStore 内存存储并写入给定电影
func newTestStore(t *testing.T, movies ...*model.Movie) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore()
	for _, m := range movies {
		if err := store.Movies().Upsert(context.Background(), m); err != nil {
			t.Fatalf("Upsert(%d) error = %v", m.ID, err)
		}
	}
	return store
}

// seedReview 直接写入一条评论并挂到电影引用列表上，不改评分
func seedReview(t *testing.T, store repository.Store, r *model.Review) {
	t.Helper()
	ctx := context.Background()
	if err := store.Reviews().Create(ctx, r); err != nil {
		t.Fatalf("Create(%s) error = %v", r.ID, err)
	}
	movie, err := store.Movies().FindByID(ctx, r.MovieID)
	if err != nil || movie == nil {
		t.Fatalf("FindByID(%d) = %v, %v", r.MovieID, movie, err)
	}
	if err := store.Movies().PushReview(ctx, movie.ID, r.ID, movie.VoteAverage, movie.VoteCount); err != nil {
		t.Fatalf("PushReview error = %v", err)
	}
}

func mustMovie(t *testing.T, store repository.Store, id int) *model.Movie {
	t.Helper()
	movie, err := store.Movies().FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID(%d) error = %v", id, err)
	}
	if movie == nil {
		t.Fatalf("movie %d not found", id)
	}
	return movie
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// assertAggregate 电影评分等于其全部评论 rating*2 的平均值
func assertAggregate(t *testing.T, store repository.Store, movieID int) {
	t.Helper()
	ctx := context.Background()
	movie := mustMovie(t, store, movieID)
	reviews, err := store.Reviews().FindByIDs(ctx, movie.ReviewIDs)
	if err != nil {
		t.Fatalf("FindByIDs error = %v", err)
	}
	if len(reviews) != movie.VoteCount {
		t.Fatalf("vote_count = %d, owned reviews = %d", movie.VoteCount, len(reviews))
	}
	want := 0.0
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating * 2
		}
		want = float64(sum) / float64(len(reviews))
	}
	if !approxEqual(movie.VoteAverage, want) {
		t.Errorf("vote_average = %v, want %v", movie.VoteAverage, want)
	}
}

// spyStore 记录是否访问过存储
type spyStore struct {
	repository.Store
	calls atomic.Int32
}

func (s *spyStore) Movies() repository.MovieStore {
	s.calls.Add(1)
	return s.Store.Movies()
}

func (s *spyStore) Reviews() repository.ReviewStore {
	s.calls.Add(1)
	return s.Store.Reviews()
}

func (s *spyStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.calls.Add(1)
	return s.Store.Transaction(ctx, fn)
}

var errBoom = errors.New("boom")

// failingStore 事务内更新电影评分时失败
type failingStore struct {
	repository.Store
}

func (f *failingStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return f.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(failingTx{tx})
	})
}

type failingTx struct {
	repository.Store
}

func (t failingTx) Movies() repository.MovieStore {
	return failingMovies{t.Store.Movies()}
}

type failingMovies struct {
	repository.MovieStore
}

func (failingMovies) PushReview(context.Context, int, string, float64, int) error {
	return errBoom
}

func (failingMovies) PullReview(context.Context, int, string, float64, int) error {
	return errBoom
}
