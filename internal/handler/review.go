package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moovie-reviews/internal/service"
	"github.com/user/moovie-reviews/internal/utils"
)

// addReviewRequest POST /api/reviews 请求体
type addReviewRequest struct {
	MovieID  *int     `json:"movie_id" binding:"required"`
	Username string   `json:"username"`
	Rating   *float64 `json:"rating" binding:"required"`
	Comment  string   `json:"comment"`
}

// LatestReviews GET /api/reviews/latest
func (h *Handler) LatestReviews(c *gin.Context) {
	page, err := pageFromQuery(c)
	if err != nil {
		fail(c, err)
		return
	}
	reviews, err := h.Catalog.LatestReviews(c.Request.Context(), page)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, reviews)
}

// UserReviews GET /api/users/:username/reviews
func (h *Handler) UserReviews(c *gin.Context) {
	page, err := pageFromQuery(c)
	if err != nil {
		fail(c, err)
		return
	}
	reviews, err := h.Catalog.UserReviews(c.Request.Context(), c.Param("username"), page)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, reviews)
}

// AddReview POST /api/reviews
func (h *Handler) AddReview(c *gin.Context) {
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body.")
		return
	}
	review, err := h.Reviews.AddReview(c.Request.Context(), service.AddReviewInput{
		MovieID:  *req.MovieID,
		Username: req.Username,
		Rating:   *req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, review)
}

// DeleteReview DELETE /api/reviews/:id
func (h *Handler) DeleteReview(c *gin.Context) {
	review, err := h.Reviews.DeleteReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, review)
}
