package repository

import (
	"context"
	"errors"

	"github.com/user/moovie-reviews/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// FindByID 根据 ID 查找评论
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByIDs 按给定 ID 顺序返回评论，缺失的 ID 被跳过
func (r *ReviewRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Review, error) {
	if len(ids) == 0 {
		return []*model.Review{}, nil
	}
	var records []*model.Review
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Review, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	ordered := make([]*model.Review, 0, len(records))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			ordered = append(ordered, rec)
		}
	}
	return ordered, nil
}

// Latest 全站最新评论
func (r *ReviewRepository) Latest(ctx context.Context, skip, limit int) ([]*model.Review, error) {
	var records []*model.Review
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&records).Error
	return records, err
}

// ListByUsername 某个用户的评论，最新的在前
func (r *ReviewRepository) ListByUsername(ctx context.Context, username string, skip, limit int) ([]*model.Review, error) {
	var records []*model.Review
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("date DESC").
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&records).Error
	return records, err
}

// Create 创建评论
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Delete 删除评论
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
