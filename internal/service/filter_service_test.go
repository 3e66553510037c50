package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/user/moovie-reviews/internal/config"
	"github.com/user/moovie-reviews/internal/filter"
	"github.com/user/moovie-reviews/internal/model"
)

func testFilterConfig() config.FilterConfig {
	return config.FilterConfig{CacheSize: 16, CacheTTL: time.Minute, Concurrency: 4}
}

func hitsOf(t *testing.T, hits []filter.Hit) map[string]int64 {
	t.Helper()
	out := make(map[string]int64, len(hits))
	for _, h := range hits {
		out[h.Name] = h.Hits
	}
	return out
}

func names(hits []filter.Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHitCountsNoFilters(t *testing.T) {
	store := newTestStore(t, catalogFixture(t)...)
	svc, err := NewFilterService(store, testFilterConfig())
	if err != nil {
		t.Fatalf("NewFilterService() error = %v", err)
	}

	counts, err := svc.HitCounts(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("HitCounts() error = %v", err)
	}

	if got, want := names(counts.Genre), []string{"Action", "Animation", "Comedy", "Documentary", "Drama", "Science Fiction"}; !equalStrings(got, want) {
		t.Errorf("genre names = %v, want %v", got, want)
	}
	if got := hitsOf(t, counts.Genre)["Science Fiction"]; got != 3 {
		t.Errorf("Science Fiction hits = %d, want 3", got)
	}

	if got := names(counts.Rating); !equalStrings(got, filter.RatingBuckets) {
		t.Errorf("rating names = %v", got)
	}
	rating := hitsOf(t, counts.Rating)
	if rating["4"] != 3 || rating["2"] != 1 || rating["0"] != 1 || rating["5"] != 0 {
		t.Errorf("rating hits = %v", rating)
	}

	if got, want := names(counts.Decade), []string{"2020s", "1990s", "1980s", "1920s"}; !equalStrings(got, want) {
		t.Errorf("decade names = %v, want %v", got, want)
	}
	if got := hitsOf(t, counts.Decade)["1990s"]; got != 2 {
		t.Errorf("1990s hits = %d, want 2", got)
	}

	if got := names(counts.Status); !equalStrings(got, model.Statuses) {
		t.Errorf("status names = %v", got)
	}
	if s := hitsOf(t, counts.Status); s[model.StatusReleased] != 4 || s[model.StatusPlanned] != 1 || s[model.StatusInProduction] != 0 {
		t.Errorf("status hits = %v", s)
	}

	if got := names(counts.Runtime); !equalStrings(got, filter.RuntimeBuckets) {
		t.Errorf("runtime names = %v", got)
	}
	runtime := hitsOf(t, counts.Runtime)
	if runtime[filter.RuntimeUnderOneHour] != 1 || runtime[filter.RuntimeOneToTwoHours] != 1 ||
		runtime[filter.RuntimeTwoToThree] != 2 || runtime[filter.RuntimeThreePlus] != 1 {
		t.Errorf("runtime hits = %v", runtime)
	}
}

func TestHitCountsWithAppliedFilters(t *testing.T) {
	store := newTestStore(t, catalogFixture(t)...)
	svc, err := NewFilterService(store, testFilterConfig())
	if err != nil {
		t.Fatalf("NewFilterService() error = %v", err)
	}

	applied := &filter.Filters{Genre: []string{"Science Fiction"}, Rating: []string{"4"}}
	counts, err := svc.HitCounts(context.Background(), applied, "")
	if err != nil {
		t.Fatalf("HitCounts() error = %v", err)
	}

	genre := hitsOf(t, counts.Genre)
	// 已选中的类型直接使用当前命中数：科幻且 [7,9) 的只有 1 和 2
	if genre["Science Fiction"] != 2 {
		t.Errorf("selected genre hits = %d, want 2", genre["Science Fiction"])
	}
	if genre["Drama"] != 1 || genre["Comedy"] != 0 {
		t.Errorf("genre hits = %v", genre)
	}

	// 评分维度的已选值被替换，不与其他分档叠加
	rating := hitsOf(t, counts.Rating)
	if rating["4"] != 2 || rating["0"] != 1 || rating["3"] != 0 {
		t.Errorf("rating hits = %v", rating)
	}

	status := hitsOf(t, counts.Status)
	if status[model.StatusReleased] != 2 || status[model.StatusPlanned] != 0 {
		t.Errorf("status hits = %v", status)
	}

	if applied.Genre[0] != "Science Fiction" || len(applied.Genre) != 1 || len(applied.Rating) != 1 {
		t.Errorf("applied filters mutated: %+v", applied)
	}
}

func TestHitCountsWithSearch(t *testing.T) {
	store := newTestStore(t, catalogFixture(t)...)
	svc, err := NewFilterService(store, testFilterConfig())
	if err != nil {
		t.Fatalf("NewFilterService() error = %v", err)
	}
	counts, err := svc.HitCounts(context.Background(), nil, "matrix")
	if err != nil {
		t.Fatalf("HitCounts() error = %v", err)
	}
	if g := hitsOf(t, counts.Genre); g["Action"] != 1 || g["Drama"] != 0 {
		t.Errorf("genre hits = %v", g)
	}
}

func TestHitCountsInvalidatedByReviewMutation(t *testing.T) {
	store := newTestStore(t, &model.Movie{ID: 1, Title: "Solaris", ReleaseDate: date(1972, 3, 20), Status: model.StatusReleased})
	filters, err := NewFilterService(store, testFilterConfig())
	if err != nil {
		t.Fatalf("NewFilterService() error = %v", err)
	}
	reviews := NewReviewService(store, filters.Invalidate)
	ctx := context.Background()

	before, err := filters.HitCounts(ctx, nil, "")
	if err != nil {
		t.Fatalf("HitCounts() error = %v", err)
	}
	if hitsOf(t, before.Rating)["0"] != 1 {
		t.Fatalf("rating hits before = %v", hitsOf(t, before.Rating))
	}

	if _, err := reviews.AddReview(ctx, AddReviewInput{MovieID: 1, Username: "dana", Rating: 5}); err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}

	after, err := filters.HitCounts(ctx, nil, "")
	if err != nil {
		t.Fatalf("HitCounts() error = %v", err)
	}
	rating := hitsOf(t, after.Rating)
	if rating["5"] != 1 || rating["0"] != 0 {
		t.Errorf("rating hits after add = %v, want movie moved to bucket 5", rating)
	}
}

func TestHitCountsCached(t *testing.T) {
	store := newTestStore(t, catalogFixture(t)...)
	svc, err := NewFilterService(store, testFilterConfig())
	if err != nil {
		t.Fatalf("NewFilterService() error = %v", err)
	}
	ctx := context.Background()

	first, err := svc.HitCounts(ctx, &filter.Filters{Decade: []string{"1990s"}}, "")
	if err != nil {
		t.Fatalf("HitCounts() error = %v", err)
	}

	// 绕过服务直接写入，缓存未失效前结果不变
	seedReview(t, store, &model.Review{ID: uuid.NewString(), MovieID: 1, Username: "erin", Rating: 1, Date: date(2024, 1, 1)})
	if err := store.Movies().PushReview(ctx, 1, uuid.NewString(), 2, 1); err != nil {
		t.Fatalf("PushReview() error = %v", err)
	}

	second, err := svc.HitCounts(ctx, &filter.Filters{Decade: []string{"1990s"}}, "")
	if err != nil {
		t.Fatalf("HitCounts() error = %v", err)
	}
	if second != first {
		t.Error("second call did not hit the cache")
	}

	svc.Invalidate()
	third, err := svc.HitCounts(ctx, &filter.Filters{Decade: []string{"1990s"}}, "")
	if err != nil {
		t.Fatalf("HitCounts() error = %v", err)
	}
	if third == first {
		t.Error("cache not cleared by Invalidate")
	}
	if got := hitsOf(t, third.Rating)["1"]; got != 1 {
		t.Errorf("bucket 1 hits = %d, want 1", got)
	}
}
