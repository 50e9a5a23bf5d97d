package http_auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinoreview/internal/delivery/http/common"
	http_auth_middleware "github.com/humanbelnik/kinoreview/internal/delivery/http/middleware/auth"
	"github.com/humanbelnik/kinoreview/internal/model"
	service_auth "github.com/humanbelnik/kinoreview/internal/service/auth"
)

type Service interface {
	Register(ctx context.Context, in service_auth.RegisterInput) (service_auth.Session, error)
	Login(ctx context.Context, email, password string) (service_auth.Session, error)
	Logout(p model.Principal) error
	Me(ctx context.Context, p model.Principal) (model.User, error)
}

type AuthMiddleware interface {
	Required() gin.HandlerFunc
}

type RegisterRequestDTO struct {
	Name     string `json:"name" binding:"required" example:"Neo"`
	Email    string `json:"email" binding:"required" example:"neo@zion.io"`
	Password string `json:"password" binding:"required" example:"redpill"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" binding:"required" example:"neo@zion.io"`
	Password string `json:"password" binding:"required" example:"redpill"`
}

type SessionResponseDTO struct {
	ID    string `json:"id" example:"507f1f77bcf86cd799439011"`
	Name  string `json:"name" example:"Neo"`
	Email string `json:"email" example:"neo@zion.io"`
	Token string `json:"token"`
}

type UserResponseDTO struct {
	ID        string    `json:"id" example:"507f1f77bcf86cd799439011"`
	Name      string    `json:"name" example:"Neo"`
	Email     string    `json:"email" example:"neo@zion.io"`
	IsAdmin   bool      `json:"isAdmin"`
	Watchlist []string  `json:"watchlist"`
	CreatedAt time.Time `json:"createdAt"`
}

func toSession(s service_auth.Session) SessionResponseDTO {
	return SessionResponseDTO{
		ID:    s.User.ID,
		Name:  s.User.Name,
		Email: s.User.Email,
		Token: s.Token,
	}
}

type Controller struct {
	service Service
	auth    AuthMiddleware
	logger  *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	service Service,
	auth AuthMiddleware,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		service: service,
		auth:    auth,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	auth.POST("/register", c.register)
	auth.POST("/login", c.login)
	auth.POST("/logout", c.auth.Required(), c.logout)
	auth.GET("/me", c.auth.Required(), c.me)
}

// @Summary Register
// @Tags Auth operations
// @Accept json
// @Produce json
// @Param request body RegisterRequestDTO true "New account"
// @Success 201 {object} SessionResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 409 {object} http_common.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (c *Controller) register(ctx *gin.Context) {
	var req RegisterRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		http_common.BadRequest(ctx, c.logger, err, "Invalid request format")
		return
	}

	session, err := c.service.Register(ctx.Request.Context(), service_auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		http_common.Abort(ctx, c.logger, err, "Registration failed")
		return
	}

	c.logger.Info("user registered", slog.String("user_id", session.User.ID))
	ctx.JSON(http.StatusCreated, toSession(session))
}

// @Summary Login
// @Tags Auth operations
// @Accept json
// @Produce json
// @Param request body LoginRequestDTO true "Credentials"
// @Success 200 {object} SessionResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse "Wrong email or password"
// @Router /auth/login [post]
func (c *Controller) login(ctx *gin.Context) {
	var req LoginRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		http_common.BadRequest(ctx, c.logger, err, "Invalid request format")
		return
	}

	session, err := c.service.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		http_common.Abort(ctx, c.logger, err, "Login failed")
		return
	}

	ctx.JSON(http.StatusOK, toSession(session))
}

// @Summary Logout
// @Description Revokes the session behind the bearer token
// @Tags Auth operations
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} http_common.ErrorResponse
// @Router /auth/logout [post]
func (c *Controller) logout(ctx *gin.Context) {
	p, ok := http_auth_middleware.PrincipalFrom(ctx)
	if !ok {
		http_common.Abort(ctx, c.logger, fmt.Errorf("%w: no session", model.ErrUnauthorized), "Logout failed")
		return
	}

	if err := c.service.Logout(p); err != nil {
		http_common.Abort(ctx, c.logger, err, "Logout failed")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Current user
// @Tags Auth operations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponseDTO
// @Failure 401 {object} http_common.ErrorResponse
// @Router /auth/me [get]
func (c *Controller) me(ctx *gin.Context) {
	p, ok := http_auth_middleware.PrincipalFrom(ctx)
	if !ok {
		http_common.Abort(ctx, c.logger, fmt.Errorf("%w: no session", model.ErrUnauthorized), "Unauthorized")
		return
	}

	u, err := c.service.Me(ctx.Request.Context(), p)
	if err != nil {
		http_common.Abort(ctx, c.logger, err, "Failed to load user")
		return
	}

	ctx.JSON(http.StatusOK, UserResponseDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		Watchlist: u.Watchlist,
		CreatedAt: u.CreatedAt,
	})
}
