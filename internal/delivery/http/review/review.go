package http_review

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinoreview/internal/delivery/http/common"
	http_auth_middleware "github.com/humanbelnik/kinoreview/internal/delivery/http/middleware/auth"
	"github.com/humanbelnik/kinoreview/internal/model"
)

type Reviews interface {
	Submit(ctx context.Context, draft model.ReviewDraft) (model.Review, error)
	List(ctx context.Context, rawID string) ([]model.Review, error)
}

type AuthMiddleware interface {
	Optional() gin.HandlerFunc
}

// CreateReviewRequestDTO carries no binding rules: range and emptiness
// checks belong to the review usecase.
type CreateReviewRequestDTO struct {
	Rating      int    `json:"rating" example:"5"`
	Comment     string `json:"comment" example:"Still holds up."`
	DisplayName string `json:"displayName,omitempty" example:"neo"`
}

type ReviewResponseDTO struct {
	ID          string    `json:"id" example:"9b2f7c1e-3a4d-4e5f-8a6b-7c8d9e0f1a2b"`
	Rating      int       `json:"rating" example:"5"`
	Comment     string    `json:"comment" example:"Still holds up."`
	DisplayName string    `json:"displayName" example:"Guest"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToResponse(r model.Review) ReviewResponseDTO {
	return ReviewResponseDTO{
		ID:          r.ID.String(),
		Rating:      r.Rating,
		Comment:     r.Comment,
		DisplayName: r.DisplayName,
		CreatedAt:   r.CreatedAt,
	}
}

type Controller struct {
	reviews Reviews
	auth    AuthMiddleware

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	reviews Reviews,
	auth AuthMiddleware,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		reviews: reviews,
		auth:    auth,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/movies/:movie_id/reviews")
	reviews.GET("", c.listReviews)
	reviews.POST("", c.auth.Optional(), c.createReview)
}

// @Summary List reviews
// @Description Reviews of a movie, newest first. Unknown movies yield an empty list.
// @Tags Reviews operations
// @Produce json
// @Param movie_id path string true "Native ObjectID hex or external catalog id"
// @Success 200 {array} ReviewResponseDTO
// @Failure 500 {object} http_common.ErrorResponse
// @Router /movies/{movie_id}/reviews [get]
func (c *Controller) listReviews(ctx *gin.Context) {
	reviews, err := c.reviews.List(ctx.Request.Context(), ctx.Param("movie_id"))
	if err != nil {
		http_common.Abort(ctx, c.logger, err, "Failed to load reviews")
		return
	}

	resp := make([]ReviewResponseDTO, len(reviews))
	for i, r := range reviews {
		resp[i] = ToResponse(r)
	}
	ctx.JSON(http.StatusOK, resp)
}

// @Summary Submit review
// @Description Guests may review; a bearer token attributes the review to the user, one review per user and movie
// @Tags Reviews operations
// @Accept json
// @Produce json
// @Param movie_id path string true "Native ObjectID hex or external catalog id"
// @Param request body CreateReviewRequestDTO true "Review"
// @Success 201 {object} ReviewResponseDTO
// @Failure 400 {object} http_common.ErrorResponse "Invalid review or already reviewed"
// @Failure 404 {object} http_common.ErrorResponse "Unknown native movie"
// @Failure 500 {object} http_common.ErrorResponse
// @Router /movies/{movie_id}/reviews [post]
func (c *Controller) createReview(ctx *gin.Context) {
	var req CreateReviewRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		http_common.BadRequest(ctx, c.logger, err, "Invalid request body")
		return
	}

	draft := model.ReviewDraft{
		MovieID:     ctx.Param("movie_id"),
		Rating:      req.Rating,
		Comment:     req.Comment,
		DisplayName: req.DisplayName,
	}
	if p, ok := http_auth_middleware.PrincipalFrom(ctx); ok {
		draft.UserID = p.UserID
		if strings.TrimSpace(draft.DisplayName) == "" {
			draft.DisplayName = p.Name
		}
	}

	review, err := c.reviews.Submit(ctx.Request.Context(), draft)
	if err != nil {
		http_common.Abort(ctx, c.logger, err, "Failed to submit review")
		return
	}

	ctx.JSON(http.StatusCreated, ToResponse(review))
}
