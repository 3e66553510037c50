package handler

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/moovie-reviews/internal/filter"
	"github.com/user/moovie-reviews/internal/logging"
	"github.com/user/moovie-reviews/internal/service"
	"github.com/user/moovie-reviews/internal/utils"
)

// PreferencesKey Session 中保存浏览偏好的键
const PreferencesKey = "preferences"

// Preferences 浏览偏好：用户名、排序、筛选与搜索词
type Preferences struct {
	Username   string            `json:"username"`
	SortOption filter.SortOption `json:"sortOption"`
	Filters    filter.Filters    `json:"filters"`
	Search     string            `json:"search"`
}

func loadPreferences(c *gin.Context) Preferences {
	session := sessions.Default(c)
	if v := session.Get(PreferencesKey); v != nil {
		if p, ok := v.(Preferences); ok {
			return p
		}
	}
	return Preferences{SortOption: filter.DefaultSort}
}

// GetPreferences GET /api/preferences
func (h *Handler) GetPreferences(c *gin.Context) {
	utils.Success(c, loadPreferences(c))
}

// SavePreferences PUT /api/preferences
func (h *Handler) SavePreferences(c *gin.Context) {
	var p Preferences
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.BadRequest(c, "Invalid request body.")
		return
	}
	p.Username = strings.TrimSpace(p.Username)
	if p.Username != "" {
		if err := service.ValidateUsername(p.Username); err != nil {
			fail(c, err)
			return
		}
	}
	if p.SortOption == "" {
		p.SortOption = filter.DefaultSort
	}
	if !p.SortOption.Valid() {
		utils.BadRequest(c, "Unknown sort option.")
		return
	}

	session := sessions.Default(c)
	session.Set(PreferencesKey, p)
	if err := session.Save(); err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("保存偏好失败")
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, p)
}
