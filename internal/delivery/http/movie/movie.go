package http_movie

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinoreview/internal/delivery/http/common"
	"github.com/humanbelnik/kinoreview/internal/model"
)

const maxPosterSize = 10 << 20

type Catalog interface {
	ListCatalog(ctx context.Context, q model.CatalogQuery) (model.CatalogPage, error)
	GetMovie(ctx context.Context, rawID string) (model.Movie, error)
}

type Admin interface {
	Upload(ctx context.Context, draft model.MovieDraft) (model.Movie, error)
	UpdateMovie(ctx context.Context, id string, draft model.MovieDraft) (model.Movie, error)
	UploadPoster(ctx context.Context, id string, poster model.Poster) (model.Movie, error)
}

type AuthMiddleware interface {
	AdminRequired() gin.HandlerFunc
}

// MovieRequestDTO is the body of admin create and update requests.
type MovieRequestDTO struct {
	Title       string   `json:"title" example:"The Matrix"`
	Description string   `json:"description" example:"A hacker learns the truth about his reality."`
	ReleaseYear *int     `json:"releaseYear" example:"1999"`
	Genres      []string `json:"genres" example:"Action,Sci-Fi"`
	PosterURL   string   `json:"posterUrl" example:"https://example.com/matrix.jpg"`
	ExternalID  string   `json:"externalId" example:"603"`
}

func (r *MovieRequestDTO) ToDraft() model.MovieDraft {
	return model.MovieDraft{
		Title:       r.Title,
		Description: r.Description,
		ReleaseYear: r.ReleaseYear,
		Genres:      r.Genres,
		PosterURL:   r.PosterURL,
		ExternalID:  r.ExternalID,
	}
}

// MovieSummaryDTO is a listing entry. ID is the native key for stored movies
// and the external catalog id otherwise.
type MovieSummaryDTO struct {
	ID          string  `json:"id" example:"507f1f77bcf86cd799439011"`
	Title       string  `json:"title" example:"The Matrix"`
	Description string  `json:"description"`
	ReleaseYear *int    `json:"releaseYear" example:"1999"`
	PosterURL   *string `json:"posterUrl"`
	Rating      float64 `json:"rating" example:"4.5"`
}

type MovieDetailsDTO struct {
	MovieSummaryDTO
	ExternalID  string     `json:"externalId,omitempty" example:"603"`
	Genres      []string   `json:"genres"`
	ReviewCount int        `json:"reviewCount" example:"12"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

type MoviesPageResponseDTO struct {
	Page       int               `json:"page" example:"1"`
	TotalPages int               `json:"totalPages" example:"3"`
	Total      int               `json:"total" example:"25"`
	Source     string            `json:"source" example:"local"`
	Movies     []MovieSummaryDTO `json:"movies"`
}

func ToSummary(m model.Movie) MovieSummaryDTO {
	dto := MovieSummaryDTO{
		ID:          m.Ref().ID(),
		Title:       m.Title,
		Description: m.Description,
		ReleaseYear: m.ReleaseYear,
		Rating:      m.AverageRating,
	}
	if m.PosterURL != "" {
		poster := m.PosterURL
		dto.PosterURL = &poster
	}
	return dto
}

func ToDetails(m model.Movie) MovieDetailsDTO {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	dto := MovieDetailsDTO{
		MovieSummaryDTO: ToSummary(m),
		ExternalID:      m.ExternalID,
		Genres:          genres,
		ReviewCount:     m.ReviewCount,
	}
	if !m.CreatedAt.IsZero() {
		createdAt := m.CreatedAt
		dto.CreatedAt = &createdAt
	}
	return dto
}

func ToPage(p model.CatalogPage) MoviesPageResponseDTO {
	movies := make([]MovieSummaryDTO, len(p.Movies))
	for i, m := range p.Movies {
		movies[i] = ToSummary(m)
	}
	return MoviesPageResponseDTO{
		Page:       p.Page,
		TotalPages: p.TotalPages,
		Total:      p.Total,
		Source:     string(p.Source),
		Movies:     movies,
	}
}

type Controller struct {
	catalog Catalog
	admin   Admin
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
	catalog Catalog,
	admin Admin,
	auth AuthMiddleware,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		catalog: catalog,
		admin:   admin,
		auth:    auth,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	movies := router.Group("/movies")
	movies.GET("", c.getMovies)
	movies.GET("/:movie_id", c.getMovie)

	admin := movies.Group("", c.auth.AdminRequired())
	admin.POST("", c.createMovie)
	admin.PUT("/:movie_id", c.updateMovie)
	admin.POST("/:movie_id/poster", c.uploadPoster)
}

// @Summary List movies
// @Description Trending or searched movies from the external catalog, falling back to the local catalog
// @Tags Movies operations
// @Produce json
// @Param page query int false "Page number, 1-based" default(1)
// @Param limit query int false "Page size for the local catalog" default(20)
// @Param search query string false "Title or description substring"
// @Success 200 {object} MoviesPageResponseDTO
// @Failure 500 {object} http_common.ErrorResponse
// @Router /movies [get]
func (c *Controller) getMovies(ctx *gin.Context) {
	q := model.CatalogQuery{
		Page:     queryInt(ctx, "page"),
		PageSize: queryInt(ctx, "limit"),
		Search:   ctx.Query("search"),
	}

	page, err := c.catalog.ListCatalog(ctx.Request.Context(), q)
	if err != nil {
		http_common.Abort(ctx, c.logger, err, "Failed to load movies")
		return
	}

	ctx.JSON(http.StatusOK, ToPage(page))
}

// @Summary Get movie
// @Description Resolves a native or external movie id
// @Tags Movies operations
// @Produce json
// @Param movie_id path string true "Native ObjectID hex or external catalog id"
// @Success 200 {object} MovieDetailsDTO
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /movies/{movie_id} [get]
func (c *Controller) getMovie(ctx *gin.Context) {
	m, err := c.catalog.GetMovie(ctx.Request.Context(), ctx.Param("movie_id"))
	if err != nil {
		http_common.Abort(ctx, c.logger, err, "Failed to load movie")
		return
	}

	ctx.JSON(http.StatusOK, ToDetails(m))
}

// @Summary Create movie
// @Tags Movies operations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MovieRequestDTO true "Movie content"
// @Success 201 {object} MovieDetailsDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 403 {object} http_common.ErrorResponse
// @Failure 409 {object} http_common.ErrorResponse "External id already linked"
// @Router /movies [post]
func (c *Controller) createMovie(ctx *gin.Context) {
	var req MovieRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		http_common.BadRequest(ctx, c.logger, err, "Invalid request body")
		return
	}

	m, err := c.admin.Upload(ctx.Request.Context(), req.ToDraft())
	if err != nil {
		http_common.Abort(ctx, c.logger, err, "Failed to create movie")
		return
	}

	c.logger.Info("movie created", slog.String("movie_id", m.ID), slog.String("title", m.Title))
	ctx.JSON(http.StatusCreated, ToDetails(m))
}

// @Summary Update movie
// @Description Rewrites content fields; rating fields are never changed here
// @Tags Movies operations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param movie_id path string true "Native movie id"
// @Param request body MovieRequestDTO true "Movie content"
// @Success 200 {object} MovieDetailsDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Router /movies/{movie_id} [put]
func (c *Controller) updateMovie(ctx *gin.Context) {
	var req MovieRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		http_common.BadRequest(ctx, c.logger, err, "Invalid request body")
		return
	}

	m, err := c.admin.UpdateMovie(ctx.Request.Context(), ctx.Param("movie_id"), req.ToDraft())
	if err != nil {
		http_common.Abort(ctx, c.logger, err, "Failed to update movie")
		return
	}

	ctx.JSON(http.StatusOK, ToDetails(m))
}

// @Summary Upload poster
// @Tags Movies operations
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param movie_id path string true "Native movie id"
// @Param poster formData file true "Poster image"
// @Success 200 {object} MovieDetailsDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Router /movies/{movie_id}/poster [post]
func (c *Controller) uploadPoster(ctx *gin.Context) {
	header, err := ctx.FormFile("poster")
	if err != nil {
		http_common.BadRequest(ctx, c.logger, err, "Poster file is required")
		return
	}
	if header.Size > maxPosterSize {
		http_common.BadRequest(ctx, c.logger,
			fmt.Errorf("poster is %d bytes, limit is %d", header.Size, maxPosterSize), "Poster too large")
		return
	}

	file, err := header.Open()
	if err != nil {
		http_common.BadRequest(ctx, c.logger, err, "Unreadable poster file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxPosterSize))
	if err != nil {
		http_common.BadRequest(ctx, c.logger, err, "Unreadable poster file")
		return
	}

	m, err := c.admin.UploadPoster(ctx.Request.Context(), ctx.Param("movie_id"), model.Poster{
		Filename:    header.Filename,
		Content:     content,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		http_common.Abort(ctx, c.logger, err, "Failed to upload poster")
		return
	}

	ctx.JSON(http.StatusOK, ToDetails(m))
}

// queryInt returns 0 for missing or non-numeric values so the catalog
// applies its defaults.
func queryInt(ctx *gin.Context, key string) int {
	n, err := strconv.Atoi(ctx.Query(key))
	if err != nil {
		return 0
	}
	return n
}
