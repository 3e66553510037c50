package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/user/moovie-reviews/internal/logging"
	"github.com/user/moovie-reviews/internal/metrics"
	"github.com/user/moovie-reviews/internal/model"
	"github.com/user/moovie-reviews/internal/repository"
)

// AddReviewInput 新增评论参数
type AddReviewInput struct {
	MovieID  int     `json:"movie_id"`
	Username string  `json:"username"`
	Rating   float64 `json:"rating"`
	Comment  string  `json:"comment"`
}

// ReviewService 评论增删
type ReviewService struct {
	store      repository.Store
	ledger     *Ledger
	invalidate func()
	now        func() time.Time
}

// NewReviewService invalidate 在每次成功变更后调用，可为 nil
func NewReviewService(store repository.Store, invalidate func()) *ReviewService {
	if invalidate == nil {
		invalidate = func() {}
	}
	return &ReviewService{
		store:      store,
		ledger:     NewLedger(store),
		invalidate: invalidate,
		now:        time.Now,
	}
}

// AddReview 新增评论
// 1. 校验评分、评论、用户名（第一个失败的规则生效，不访问数据库）
// 2. 确认电影存在
// 3. 事务内写评论并更新电影评分
// 4. 返回评论及其所属电影
func (s *ReviewService) AddReview(ctx context.Context, in AddReviewInput) (*model.Review, error) {
	if err := validateAddReview(in); err != nil {
		metrics.RecordReviewMutation("add", "user_error")
		return nil, err
	}

	movie, err := s.store.Movies().FindByID(ctx, in.MovieID)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("movie_id", in.MovieID).Msg("查询电影失败")
		metrics.RecordReviewMutation("add", "internal_error")
		return nil, Internal(MsgAddReviewFailed)
	}
	if movie == nil {
		metrics.RecordReviewMutation("add", "user_error")
		return nil, BadUserInput(MsgMovieNotFound)
	}

	review := &model.Review{
		ID:       uuid.NewString(),
		MovieID:  movie.ID,
		Username: strings.TrimSpace(in.Username),
		Rating:   int(in.Rating),
		Comment:  strings.TrimSpace(in.Comment),
		Date:     s.now().UTC(),
	}

	updated, err := s.ledger.Add(ctx, review)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("movie_id", movie.ID).Str("review_id", review.ID).Msg("添加评论失败")
		metrics.RecordReviewMutation("add", "internal_error")
		return nil, Internal(MsgAddReviewFailed)
	}

	s.invalidate()
	metrics.RecordReviewMutation("add", "ok")
	logging.Ctx(ctx).Info().Int("movie_id", movie.ID).Str("review_id", review.ID).Int("rating", review.Rating).Msg("评论已添加")

	review.Movie = updated
	return review, nil
}

func validateAddReview(in AddReviewInput) error {
	if err := ValidateRating(in.Rating); err != nil {
		return err
	}
	if err := ValidateComment(in.Comment); err != nil {
		return err
	}
	return ValidateUsername(in.Username)
}

// DeleteReview 删除评论
// 1. 确认评论存在
// 2. 事务内删除评论，重新读取电影并撤销评分
// 3. 返回被删除的评论及更新后的电影
func (s *ReviewService) DeleteReview(ctx context.Context, id string) (*model.Review, error) {
	if _, err := uuid.Parse(id); err != nil {
		metrics.RecordReviewMutation("delete", "user_error")
		return nil, BadUserInput(MsgReviewNotFound)
	}

	review, err := s.store.Reviews().FindByID(ctx, id)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("review_id", id).Msg("查询评论失败")
		metrics.RecordReviewMutation("delete", "internal_error")
		return nil, Internal(MsgDeleteReviewFailed)
	}
	if review == nil {
		metrics.RecordReviewMutation("delete", "user_error")
		return nil, BadUserInput(MsgReviewNotFound)
	}

	updated, err := s.ledger.Remove(ctx, review)
	if errors.Is(err, errReviewGone) {
		metrics.RecordReviewMutation("delete", "user_error")
		return nil, BadUserInput(MsgReviewNotFound)
	}
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("movie_id", review.MovieID).Str("review_id", id).Msg("删除评论失败")
		metrics.RecordReviewMutation("delete", "internal_error")
		return nil, Internal(MsgDeleteReviewFailed)
	}

	s.invalidate()
	metrics.RecordReviewMutation("delete", "ok")
	logging.Ctx(ctx).Info().Int("movie_id", review.MovieID).Str("review_id", id).Msg("评论已删除")

	review.Movie = updated
	return review, nil
}
