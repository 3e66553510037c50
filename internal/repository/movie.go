package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/moovie-reviews/internal/filter"
	"github.com/user/moovie-reviews/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// FindByID 根据 ID 查找电影
func (r *MovieRepository) FindByID(ctx context.Context, id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindForUpdate 读取电影并加行锁（SELECT ... FOR UPDATE）
func (r *MovieRepository) FindForUpdate(ctx context.Context, id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindByIDs 批量查找电影
func (r *MovieRepository) FindByIDs(ctx context.Context, ids []int) (map[int]*model.Movie, error) {
	result := make(map[int]*model.Movie, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var movies []*model.Movie
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&movies).Error; err != nil {
		return nil, err
	}
	for _, m := range movies {
		result[m.ID] = m
	}
	return result, nil
}

// Find 按条件分页查询电影
func (r *MovieRepository) Find(ctx context.Context, q MovieQuery) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.where(ctx, q.Where).
		Clauses(q.Sort.OrderBy()).
		Offset(q.Skip).
		Limit(q.Limit).
		Find(&movies).Error
	return movies, err
}

// Count 统计满足条件的电影数量
func (r *MovieRepository) Count(ctx context.Context, where filter.Predicate) (int64, error) {
	var count int64
	err := r.where(ctx, where).Count(&count).Error
	return count, err
}

func (r *MovieRepository) where(ctx context.Context, p filter.Predicate) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.Movie{})
	if p == nil {
		return tx
	}
	if expr := p.Expression(); expr != nil {
		tx = tx.Clauses(clause.Where{Exprs: []clause.Expression{expr}})
	}
	return tx
}

// DistinctGenres 目录中出现过的全部类型
func (r *MovieRepository) DistinctGenres(ctx context.Context) ([]string, error) {
	var genres []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT g
		FROM movies, unnest(genres) AS g
		WHERE g IS NOT NULL
		ORDER BY g
	`).Scan(&genres).Error
	return genres, err
}

// DistinctDecades 目录中出现过的全部年代，从新到旧
func (r *MovieRepository) DistinctDecades(ctx context.Context) ([]int, error) {
	var decades []int
	err := r.db.WithContext(ctx).Model(&model.Movie{}).
		Distinct().
		Order("decade DESC").
		Pluck("decade", &decades).Error
	return decades, err
}

// PushReview 新增评论引用（插到最前）并更新评分聚合
func (r *MovieRepository) PushReview(ctx context.Context, movieID int, reviewID string, voteAverage float64, voteCount int) error {
	return r.updateAggregate(ctx, movieID, map[string]interface{}{
		"reviews":      gorm.Expr("array_prepend(?::text, COALESCE(reviews, '{}'::text[]))", reviewID),
		"vote_average": voteAverage,
		"vote_count":   voteCount,
	})
}

// PullReview 移除评论引用并更新评分聚合
func (r *MovieRepository) PullReview(ctx context.Context, movieID int, reviewID string, voteAverage float64, voteCount int) error {
	return r.updateAggregate(ctx, movieID, map[string]interface{}{
		"reviews":      gorm.Expr("array_remove(reviews, ?::text)", reviewID),
		"vote_average": voteAverage,
		"vote_count":   voteCount,
	})
}

func (r *MovieRepository) updateAggregate(ctx context.Context, movieID int, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ?", movieID).
		UpdateColumns(updates)
	if res.Error != nil {
		return fmt.Errorf("更新电影 %d 评分失败: %w", movieID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert 创建或更新电影，已存在时保留评分聚合与评论引用
func (r *MovieRepository) Upsert(ctx context.Context, movie *model.Movie) error {
	movie.Decade = model.DecadeOf(movie.ReleaseDate)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "status", "release_date", "decade", "runtime", "genres",
			"revenue", "budget", "adult", "backdrop_path", "poster_path", "homepage",
			"imdb_id", "original_language", "original_title", "overview", "popularity",
			"tagline", "production_companies", "production_countries", "spoken_languages", "keywords",
		}),
	}).Create(movie).Error
}
