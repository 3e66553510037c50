package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-reviews/internal/filter"
	"github.com/user/moovie-reviews/internal/service"
	"github.com/user/moovie-reviews/internal/utils"
)

// ListMovies GET /api/movies
func (h *Handler) ListMovies(c *gin.Context) {
	q, err := listQueryFromQuery(c)
	if err != nil {
		fail(c, err)
		return
	}
	h.listMovies(c, q)
}

// QueryMovies POST /api/movies/query，参数放在 JSON 中
func (h *Handler) QueryMovies(c *gin.Context) {
	q := service.MovieListQuery{Page: service.DefaultPage()}
	if err := c.ShouldBindJSON(&q); err != nil {
		utils.BadRequest(c, "Invalid request body.")
		return
	}
	h.listMovies(c, q)
}

func (h *Handler) listMovies(c *gin.Context, q service.MovieListQuery) {
	movies, err := h.Catalog.Movies(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, movies)
}

// GetMovie GET /api/movies/:id
func (h *Handler) GetMovie(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Movie id must be an integer.")
		return
	}
	movie, err := h.Catalog.Movie(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if movie == nil {
		utils.NotFound(c, service.MsgMovieNotFound)
		return
	}
	utils.Success(c, movie)
}

// filterCountsRequest POST /api/filters 请求体
type filterCountsRequest struct {
	AppliedFilters *filter.Filters `json:"appliedFilters"`
	Search         string          `json:"search"`
}

// FilterCounts GET /api/filters
func (h *Handler) FilterCounts(c *gin.Context) {
	filters, err := filtersFromQuery(c)
	if err != nil {
		fail(c, err)
		return
	}
	h.filterCounts(c, filters, c.Query("search"))
}

// QueryFilterCounts POST /api/filters
func (h *Handler) QueryFilterCounts(c *gin.Context) {
	var req filterCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body.")
		return
	}
	h.filterCounts(c, req.AppliedFilters, req.Search)
}

func (h *Handler) filterCounts(c *gin.Context, applied *filter.Filters, search string) {
	counts, err := h.Filters.HitCounts(c.Request.Context(), applied, search)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, counts)
}
