package main

import (
	"context"
	"encoding/gob"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-reviews/internal/config"
	"github.com/user/moovie-reviews/internal/handler"
	"github.com/user/moovie-reviews/internal/logging"
	"github.com/user/moovie-reviews/internal/repository"
	"github.com/user/moovie-reviews/internal/router"
	"github.com/user/moovie-reviews/internal/service"
)

func main() {
	// 注册 Session 模型
	gob.Register(handler.Preferences{})

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("加载配置失败")
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if cfg.IsProduction() && cfg.UsesDefaultSecret() {
		logging.Warn().Msg("生产环境仍在使用默认 APP_SECRET，请尽快替换")
	}

	// 初始化存储
	store, closeStore, err := openStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("初始化存储失败")
	}
	defer closeStore()

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 Handler
	h, err := handler.NewHandler(store, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("初始化处理器失败")
	}

	// 注册路由
	r := router.New(h)

	// 配置 HTTP 服务器
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		logging.Info().Str("addr", "http://localhost:"+cfg.Port).Msg("服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("服务器强制关闭")
		return
	}

	logging.Info().Msg("服务器已退出")
}

// openStore 按配置选择 PostgreSQL 或内存存储
func openStore(cfg *config.Config) (repository.Store, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := repository.NewMemoryStore()
		if cfg.Database.SeedFile != "" {
			if err := seed(store, cfg.Database.SeedFile); err != nil {
				return nil, nil, err
			}
		}
		logging.Warn().Msg("使用内存存储，重启后数据丢失")
		return store, func() {}, nil
	}

	db, err := repository.InitDB(cfg.DatabaseURL, repository.DBOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		LogQueries:   cfg.Database.LogQueries,
	})
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return repository.NewRepositories(db), func() { sqlDB.Close() }, nil
}

func seed(store repository.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := service.ImportCatalog(context.Background(), store, f)
	if err != nil {
		return err
	}
	logging.Info().Int("movies", n).Str("file", path).Msg("已导入电影目录")
	return nil
}
