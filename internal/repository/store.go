package repository

import (
	"context"
	"errors"

	"github.com/user/moovie-reviews/internal/filter"
	"github.com/user/moovie-reviews/internal/model"
)

// ErrNotFound 事务内目标记录已不存在
var ErrNotFound = errors.New("record not found")

// MovieQuery 电影列表查询条件
type MovieQuery struct {
	Where filter.Predicate
	Sort  filter.SortOption
	Skip  int
	Limit int
}

// MovieStore 电影仓库
type MovieStore interface {
	// FindByID 未找到时返回 (nil, nil)
	FindByID(ctx context.Context, id int) (*model.Movie, error)
	// FindForUpdate 在事务中读取并锁定电影行，未找到返回 ErrNotFound
	FindForUpdate(ctx context.Context, id int) (*model.Movie, error)
	FindByIDs(ctx context.Context, ids []int) (map[int]*model.Movie, error)
	Find(ctx context.Context, q MovieQuery) ([]*model.Movie, error)
	Count(ctx context.Context, where filter.Predicate) (int64, error)
	DistinctGenres(ctx context.Context) ([]string, error)
	DistinctDecades(ctx context.Context) ([]int, error)
	// PushReview 把评论引用插入列表头部并写入新的评分聚合
	PushReview(ctx context.Context, movieID int, reviewID string, voteAverage float64, voteCount int) error
	// PullReview 从列表中移除评论引用并写入新的评分聚合
	PullReview(ctx context.Context, movieID int, reviewID string, voteAverage float64, voteCount int) error
	// Upsert 导入电影；已存在时不覆盖评分聚合和评论引用
	Upsert(ctx context.Context, movie *model.Movie) error
}

// ReviewStore 评论仓库
type ReviewStore interface {
	// FindByID 未找到时返回 (nil, nil)
	FindByID(ctx context.Context, id string) (*model.Review, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Review, error)
	Latest(ctx context.Context, skip, limit int) ([]*model.Review, error)
	ListByUsername(ctx context.Context, username string, skip, limit int) ([]*model.Review, error)
	Create(ctx context.Context, review *model.Review) error
	// Delete 删除评论，不存在时返回 ErrNotFound
	Delete(ctx context.Context, id string) error
}

// Store 仓库集合
type Store interface {
	Movies() MovieStore
	Reviews() ReviewStore
	// Transaction 在单个事务中执行 fn，fn 返回错误或 panic 时整体回滚
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
