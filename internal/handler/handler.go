package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-reviews/internal/config"
	"github.com/user/moovie-reviews/internal/logging"
	"github.com/user/moovie-reviews/internal/repository"
	"github.com/user/moovie-reviews/internal/service"
	"github.com/user/moovie-reviews/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Config  *config.Config
	Catalog *service.CatalogService
	Reviews *service.ReviewService
	Filters *service.FilterService
}

// NewHandler 创建处理器
func NewHandler(store repository.Store, cfg *config.Config) (*Handler, error) {
	// 筛选计数服务，评论变更后清空其缓存
	filters, err := service.NewFilterService(store, cfg.Filter)
	if err != nil {
		return nil, err
	}

	return &Handler{
		Config:  cfg,
		Catalog: service.NewCatalogService(store),
		Reviews: service.NewReviewService(store, filters.Invalidate),
		Filters: filters,
	}, nil
}

// fail 按错误类别输出统一响应
func fail(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		if svcErr.Code == service.CodeBadUserInput {
			utils.BadRequest(c, svcErr.Message)
			return
		}
		utils.InternalServerError(c, svcErr.Message)
		return
	}
	logging.Ctx(c.Request.Context()).Error().Err(err).Msg("未分类错误")
	utils.InternalServerError(c, "")
}
