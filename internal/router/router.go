package router

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/moovie-reviews/internal/handler"
	"github.com/user/moovie-reviews/internal/middleware"
)

// SessionName Cookie Session 名称
const SessionName = "moovie_session"

// New 创建 Gin 引擎并挂载中间件与路由
func New(h *handler.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 中间件
	r.Use(middleware.Logger())
	r.Use(middleware.Security())
	r.Use(middleware.CORS(h.Config.AllowedOrigins()))

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 设置 Session 中间件
	store := cookie.NewStore([]byte(h.Config.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 天
		HttpOnly: true,
		Secure:   h.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionName, store))

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// 电影
		api.GET("/movies", h.ListMovies)
		api.POST("/movies/query", h.QueryMovies)
		api.GET("/movies/:id", h.GetMovie)

		// 筛选计数
		api.GET("/filters", h.FilterCounts)
		api.POST("/filters", h.QueryFilterCounts)

		// 评论
		api.GET("/reviews/latest", h.LatestReviews)
		api.POST("/reviews", h.AddReview)
		api.DELETE("/reviews/:id", h.DeleteReview)
		api.GET("/users/:username/reviews", h.UserReviews)

		// 浏览偏好
		api.GET("/preferences", h.GetPreferences)
		api.PUT("/preferences", h.SavePreferences)
	}
}
