package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-reviews/internal/filter"
	"github.com/user/moovie-reviews/internal/service"
)

// pageFromQuery 读取 skip / limit，缺省为 0 / 10
func pageFromQuery(c *gin.Context) (service.Page, error) {
	page := service.DefaultPage()
	var err error
	if page.Skip, err = floatQuery(c, "skip", page.Skip); err != nil {
		return page, err
	}
	if page.Limit, err = floatQuery(c, "limit", page.Limit); err != nil {
		return page, err
	}
	return page, nil
}

func floatQuery(c *gin.Context, key string, def float64) (float64, error) {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, service.BadUserInput(service.MsgSkipLimitInteger)
	}
	return v, nil
}

// filtersFromQuery 各维度使用重复参数，例如 ?genre=Drama&genre=Comedy
func filtersFromQuery(c *gin.Context) (*filter.Filters, error) {
	var f filter.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		return nil, service.BadUserInput("Invalid filters.")
	}
	return &f, nil
}

// listQueryFromQuery GET /api/movies 的全部参数
func listQueryFromQuery(c *gin.Context) (service.MovieListQuery, error) {
	page, err := pageFromQuery(c)
	if err != nil {
		return service.MovieListQuery{}, err
	}
	filters, err := filtersFromQuery(c)
	if err != nil {
		return service.MovieListQuery{}, err
	}
	return service.MovieListQuery{
		Page:       page,
		Filters:    filters,
		SortOption: filter.SortOption(c.Query("sort")),
		Search:     c.Query("search"),
	}, nil
}
