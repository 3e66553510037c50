package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/user/moovie-reviews/internal/config"
	"github.com/user/moovie-reviews/internal/logging"
	"github.com/user/moovie-reviews/internal/repository"
	"github.com/user/moovie-reviews/internal/service"
)

// 把 JSON 电影目录导入 PostgreSQL，已存在的电影只更新元数据
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("加载配置失败")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	file := flag.String("file", cfg.Database.SeedFile, "电影目录 JSON 文件（数组）")
	timeout := flag.Duration("timeout", 10*time.Minute, "导入超时时间")
	flag.Parse()

	if *file == "" {
		logging.Fatal().Msg("缺少 -file 参数或 SEED_FILE 环境变量")
	}

	db, err := repository.InitDB(cfg.DatabaseURL, repository.DBOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		LogQueries:   cfg.Database.LogQueries,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("数据库连接失败")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logging.Fatal().Err(err).Msg("获取连接池失败")
	}
	defer sqlDB.Close()

	f, err := os.Open(*file)
	if err != nil {
		logging.Fatal().Err(err).Str("file", *file).Msg("打开文件失败")
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	n, err := service.ImportCatalog(ctx, repository.NewRepositories(db), f)
	if err != nil {
		logging.Error().Err(err).Int("imported", n).Msg("导入中断")
		return
	}
	logging.Info().Int("movies", n).Dur("elapsed", time.Since(start)).Msg("导入完成")
}
