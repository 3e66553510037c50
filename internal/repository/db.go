package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/user/moovie-reviews/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBOptions 连接池配置
type DBOptions struct {
	MaxOpenConns int
	MaxIdleConns int
	LogQueries   bool
}

// InitDB 初始化数据库连接并迁移表结构
func InitDB(databaseURL string, opts DBOptions) (*gorm.DB, error) {
	logLevel := logger.Warn
	if opts.LogQueries {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}

	if err := db.AutoMigrate(&model.Movie{}, &model.Review{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// Repositories 仓库集合（PostgreSQL）
type Repositories struct {
	DB     *gorm.DB
	Movie  *MovieRepository
	Review *ReviewRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:     db,
		Movie:  NewMovieRepository(db),
		Review: NewReviewRepository(db),
	}
}

func (r *Repositories) Movies() MovieStore { return r.Movie }

func (r *Repositories) Reviews() ReviewStore { return r.Review }

// Transaction 开启事务，提交/回滚由 gorm 负责，任何退出路径都会释放连接
func (r *Repositories) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
