package app

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/humanbelnik/kinoreview/internal/config"
	http_auth "github.com/humanbelnik/kinoreview/internal/delivery/http/auth"
	http_init "github.com/humanbelnik/kinoreview/internal/delivery/http/init"
	http_auth_middleware "github.com/humanbelnik/kinoreview/internal/delivery/http/middleware/auth"
	http_movie "github.com/humanbelnik/kinoreview/internal/delivery/http/movie"
	http_review "github.com/humanbelnik/kinoreview/internal/delivery/http/review"
	http_swagger "github.com/humanbelnik/kinoreview/internal/delivery/http/swagger"
	infra_logging "github.com/humanbelnik/kinoreview/internal/infra/logging"
	infra_memory "github.com/humanbelnik/kinoreview/internal/infra/memory"
	infra_mongo_init "github.com/humanbelnik/kinoreview/internal/infra/mongo/init"
	infra_mongo_movie "github.com/humanbelnik/kinoreview/internal/infra/mongo/movie"
	infra_mongo_review "github.com/humanbelnik/kinoreview/internal/infra/mongo/review"
	infra_mongo_user "github.com/humanbelnik/kinoreview/internal/infra/mongo/user"
	infra_pg_init "github.com/humanbelnik/kinoreview/internal/infra/postgres/init"
	infra_postgres_movie "github.com/humanbelnik/kinoreview/internal/infra/postgres/movie"
	infra_postgres_review "github.com/humanbelnik/kinoreview/internal/infra/postgres/review"
	infra_postgres_user "github.com/humanbelnik/kinoreview/internal/infra/postgres/user"
	infra_redis_cache "github.com/humanbelnik/kinoreview/internal/infra/redis/cache"
	infra_redis_init "github.com/humanbelnik/kinoreview/internal/infra/redis/init"
	infra_session_cache "github.com/humanbelnik/kinoreview/internal/infra/redis/session"
	infra_s3 "github.com/humanbelnik/kinoreview/internal/infra/s3"
	"github.com/humanbelnik/kinoreview/internal/infra/s3mock"
	infra_tmdb "github.com/humanbelnik/kinoreview/internal/infra/tmdb"
	"github.com/humanbelnik/kinoreview/internal/model"
	service_auth "github.com/humanbelnik/kinoreview/internal/service/auth"
	usecase_catalog "github.com/humanbelnik/kinoreview/internal/usecase/catalog"
	usecase_movie "github.com/humanbelnik/kinoreview/internal/usecase/movie"
	usecase_rating "github.com/humanbelnik/kinoreview/internal/usecase/rating"
	usecase_review "github.com/humanbelnik/kinoreview/internal/usecase/review"
)

// MovieRepository is what every storage driver provides for movies.
type MovieRepository interface {
	usecase_movie.Repository
	usecase_catalog.LocalCatalog
	usecase_rating.Repository
}

type Repositories struct {
	Movies  MovieRepository
	Reviews usecase_review.Repository
	Users   service_auth.UserRepository
}

// MustOpenRepositories connects to the configured storage driver.
func MustOpenRepositories(cfg *config.Config) Repositories {
	if cfg.Storage.Driver == config.StorageDriverMongo {
		db := infra_mongo_init.MustEstablishConn(cfg.Mongo)
		return Repositories{
			Movies:  infra_mongo_movie.New(db),
			Reviews: infra_mongo_review.New(db),
			Users:   infra_mongo_user.New(db),
		}
	}

	db := infra_pg_init.MustEstablishConn(cfg.Postgres)
	return Repositories{
		Movies:  infra_postgres_movie.New(db),
		Reviews: infra_postgres_review.New(db),
		Users:   infra_postgres_user.New(db),
	}
}

// MustOpenPosters returns the poster store selected by S3_CLIENT_TYPE.
func MustOpenPosters(cfg config.S3) usecase_movie.PosterRepository {
	if cfg.ClientType == config.S3ClientNone {
		return s3mock.New(cfg.Prefix, cfg.PublicURL)
	}

	storage, err := infra_s3.New(
		cfg.Bucket,
		infra_s3.MustEstablishConn(cfg),
		cfg.Prefix,
		infra_s3.WithPublicURL(cfg.PublicURL),
		infra_s3.WithPresignTTL(cfg.PresignTTL),
	)
	if err != nil {
		panic(err)
	}
	return storage
}

type caches struct {
	pages    usecase_catalog.Cache[model.CatalogPage]
	movies   usecase_catalog.Cache[model.Movie]
	sessions service_auth.SessionCache
}

func openCaches(cfg config.RedisCache) caches {
	if !cfg.Enabled() {
		slog.Info("redis is not configured, caching in process memory")
		return caches{
			pages:    infra_memory.New[model.CatalogPage](),
			movies:   infra_memory.New[model.Movie](),
			sessions: infra_memory.NewSessions(),
		}
	}

	client := infra_redis_init.MustEstablishConn(cfg)
	return caches{
		pages:    infra_redis_cache.New[model.CatalogPage](client, "catalog_page"),
		movies:   infra_redis_cache.New[model.Movie](client, "catalog_movie"),
		sessions: infra_session_cache.New(client, "session_cache"),
	}
}

func catalogOptions(cfg config.TMDB, logger *slog.Logger) []usecase_catalog.Option {
	opts := []usecase_catalog.Option{usecase_catalog.WithLogger(logger)}
	if !cfg.Enabled() {
		logger.Warn("TMDB_API_KEY is not set, serving the local catalog only")
		return opts
	}

	client, err := infra_tmdb.New(cfg.APIKey, cfg.BaseURL, cfg.Language, infra_tmdb.WithTimeout(cfg.Timeout))
	if err != nil {
		panic(err)
	}
	return append(opts, usecase_catalog.WithExternal(infra_tmdb.NewCatalog(client, cfg.ImageBaseURL)))
}

func Go(cfg *config.Config) {
	logger, err := infra_logging.Setup(cfg.Log)
	if err != nil {
		panic(err)
	}

	repos := MustOpenRepositories(cfg)
	cache := openCaches(cfg.Redis)
	posters := MustOpenPosters(cfg.S3)

	ratingUC := usecase_rating.New(repos.Movies)
	reviewUC := usecase_review.New(repos.Reviews, repos.Movies, ratingUC, usecase_review.WithLogger(logger))
	catalogUC := usecase_catalog.New(
		repos.Movies,
		cache.pages,
		cache.movies,
		usecase_catalog.Settings{
			ListingTTL:      cfg.Catalog.ListingTTL,
			DetailsTTL:      cfg.Catalog.DetailsTTL,
			RetryDelay:      cfg.Catalog.RetryDelay,
			DefaultPageSize: cfg.Catalog.DefaultPageSize,
			MaxPageSize:     cfg.Catalog.MaxPageSize,
		},
		catalogOptions(cfg.TMDB, logger)...,
	)
	movieUC := usecase_movie.New(repos.Movies, posters, ratingUC)

	tokens, err := service_auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		panic(err)
	}
	authService := service_auth.New(repos.Users, cache.sessions, tokens, service_auth.WithAdminEmails(cfg.Auth.AdminEmails))
	authMiddleware := http_auth_middleware.New(authService, http_auth_middleware.WithLogger(logger))

	controllerPool := http_init.NewControllerPool(cfg.Mode, http_init.WithCORS(cfg.CORS.Origins))
	controllerPool.Add(http_swagger.New(""))
	controllerPool.Add(http_movie.New(catalogUC, movieUC, authMiddleware, http_movie.WithLogger(logger)))
	controllerPool.Add(http_review.New(reviewUC, authMiddleware, http_review.WithLogger(logger)))
	controllerPool.Add(http_auth.New(authService, authMiddleware, http_auth.WithLogger(logger)))
	controllerPool.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := controllerPool.RunAll(ctx, net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)); err != nil {
		logger.Error("http server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("http server stopped")
}
