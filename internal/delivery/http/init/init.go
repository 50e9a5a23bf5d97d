package http_init

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	http_access_middleware "github.com/humanbelnik/kinoreview/internal/delivery/http/middleware/access"
	"github.com/rs/cors"
)

const apiPrefix = "/api/v1"

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type ControllerPool struct {
	pool    []Controller
	rg      *gin.RouterGroup
	engine  *gin.Engine
	origins []string
}

type Option func(*ControllerPool)

// WithCORS allows browser calls from origins. "*" allows any origin.
func WithCORS(origins []string) Option {
	return func(pool *ControllerPool) {
		pool.origins = origins
	}
}

func NewControllerPool(mode string, opts ...Option) *ControllerPool {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.Use(http_access_middleware.ReadOnlyBadGatewayMiddleware(mode))
	rg := engine.Group(apiPrefix)

	pool := &ControllerPool{
		pool:   make([]Controller, 0, 10),
		rg:     rg,
		engine: engine,
	}
	for _, opt := range opts {
		opt(pool)
	}
	return pool
}

func (pool *ControllerPool) Register() {
	for _, c := range pool.pool {
		c.RegisterRoutes(pool.rg)
	}
}

func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}

// Handler is the engine wrapped with CORS handling.
func (pool *ControllerPool) Handler() http.Handler {
	if len(pool.origins) == 0 {
		return pool.engine
	}
	return cors.New(cors.Options{
		AllowedOrigins: pool.origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(pool.engine)
}

// RunAll serves until ctx is cancelled, then drains in-flight requests.
func (pool *ControllerPool) RunAll(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           pool.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
