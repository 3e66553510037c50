package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/moovie-reviews/internal/model"
	"github.com/user/moovie-reviews/internal/repository"
)

// errReviewGone 事务内评论已被并发删除
var errReviewGone = errors.New("review already deleted")

// Aggregate 电影评分聚合，VoteAverage 为 0-10 分制
type Aggregate struct {
	VoteAverage float64
	VoteCount   int
}

// AggregateOf 取电影当前的评分聚合
func AggregateOf(m *model.Movie) Aggregate {
	return Aggregate{VoteAverage: m.VoteAverage, VoteCount: m.VoteCount}
}

// Add 计入一条评论（rating 为 1-5 分）
func (a Aggregate) Add(rating int) Aggregate {
	scaled := float64(rating * 2)
	return Aggregate{
		VoteAverage: (a.VoteAverage*float64(a.VoteCount) + scaled) / float64(a.VoteCount+1),
		VoteCount:   a.VoteCount + 1,
	}
}

// Remove 撤销一条评论，最后一条被撤销时归零
func (a Aggregate) Remove(rating int) Aggregate {
	if a.VoteCount <= 1 {
		return Aggregate{}
	}
	scaled := float64(rating * 2)
	return Aggregate{
		VoteAverage: (a.VoteAverage*float64(a.VoteCount) - scaled) / float64(a.VoteCount-1),
		VoteCount:   a.VoteCount - 1,
	}
}

// Ledger 在同一事务中写评论和电影评分聚合
//
// 事务内先锁电影行再写评论，同一部电影的并发变更因此串行执行。
type Ledger struct {
	store repository.Store
}

func NewLedger(store repository.Store) *Ledger {
	return &Ledger{store: store}
}

// Add 保存评论并把它计入电影评分，返回更新后的电影
func (l *Ledger) Add(ctx context.Context, review *model.Review) (*model.Movie, error) {
	var updated *model.Movie
	err := l.store.Transaction(ctx, func(tx repository.Store) error {
		movie, err := tx.Movies().FindForUpdate(ctx, review.MovieID)
		if err != nil {
			return fmt.Errorf("锁定电影 %d 失败: %w", review.MovieID, err)
		}
		if err := tx.Reviews().Create(ctx, review); err != nil {
			return fmt.Errorf("保存评论失败: %w", err)
		}

		next := AggregateOf(movie).Add(review.Rating)
		if err := tx.Movies().PushReview(ctx, movie.ID, review.ID, next.VoteAverage, next.VoteCount); err != nil {
			return err
		}

		movie.VoteAverage = next.VoteAverage
		movie.VoteCount = next.VoteCount
		movie.ReviewIDs = append([]string{review.ID}, movie.ReviewIDs...)
		updated = movie
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove 删除评论并把它从电影评分中撤销，返回更新后的电影
//
// 评论在事务开始前已被删除时返回 errReviewGone。
func (l *Ledger) Remove(ctx context.Context, review *model.Review) (*model.Movie, error) {
	var updated *model.Movie
	err := l.store.Transaction(ctx, func(tx repository.Store) error {
		movie, err := tx.Movies().FindForUpdate(ctx, review.MovieID)
		if err != nil {
			return fmt.Errorf("锁定电影 %d 失败: %w", review.MovieID, err)
		}
		if err := tx.Reviews().Delete(ctx, review.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errReviewGone
			}
			return fmt.Errorf("删除评论失败: %w", err)
		}

		next := AggregateOf(movie).Remove(review.Rating)
		if err := tx.Movies().PullReview(ctx, movie.ID, review.ID, next.VoteAverage, next.VoteCount); err != nil {
			return err
		}

		movie.VoteAverage = next.VoteAverage
		movie.VoteCount = next.VoteCount
		refs := make([]string, 0, len(movie.ReviewIDs))
		for _, id := range movie.ReviewIDs {
			if id != review.ID {
				refs = append(refs, id)
			}
		}
		movie.ReviewIDs = refs
		updated = movie
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
