package usecase_catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/humanbelnik/kinoreview/internal/model"
)

var (
	ErrFailedToListCatalog = errors.New("failed to list catalog")
	ErrFailedToLoadMovie   = errors.New("failed to load movie")
)

type ExternalCatalog interface {
	Trending(ctx context.Context, page int) (model.CatalogPage, error)
	Search(ctx context.Context, query string, page int) (model.CatalogPage, error)
	Details(ctx context.Context, externalID string) (model.Movie, error)
}

type LocalCatalog interface {
	List(ctx context.Context, q model.CatalogQuery) ([]model.Movie, int, error)
	LoadByID(ctx context.Context, id string) (model.Movie, error)
	LoadByExternalID(ctx context.Context, externalID string) (model.Movie, error)
}

// Cache is a key-value store with per-entry expiry.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool, error)
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
}

type Settings struct {
	ListingTTL      time.Duration
	DetailsTTL      time.Duration
	RetryDelay      time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

type Usecase struct {
	local    LocalCatalog
	external ExternalCatalog
	pages    Cache[model.CatalogPage]
	movies   Cache[model.Movie]
	settings Settings

	logger *slog.Logger
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

// WithExternal enables the external catalog. Without it only the local
// catalog is served.
func WithExternal(external ExternalCatalog) Option {
	return func(u *Usecase) {
		u.external = external
	}
}

func New(
	local LocalCatalog,
	pages Cache[model.CatalogPage],
	movies Cache[model.Movie],
	settings Settings,
	opts ...Option,
) *Usecase {
	if settings.DefaultPageSize <= 0 {
		settings.DefaultPageSize = 20
	}
	if settings.MaxPageSize < settings.DefaultPageSize {
		settings.MaxPageSize = settings.DefaultPageSize
	}
	u := &Usecase{
		local:    local,
		pages:    pages,
		movies:   movies,
		settings: settings,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Normalize clamps paging parameters into their valid ranges.
func (u *Usecase) Normalize(q model.CatalogQuery) model.CatalogQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = u.settings.DefaultPageSize
	}
	if q.PageSize > u.settings.MaxPageSize {
		q.PageSize = u.settings.MaxPageSize
	}
	// (Page-1)*PageSize becomes the store offset and must not overflow.
	if maxPage := math.MaxInt / q.PageSize; q.Page > maxPage {
		q.Page = maxPage
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// ListCatalog serves a page from the external catalog when it is configured
// and reachable, and from the local catalog otherwise.
func (u *Usecase) ListCatalog(ctx context.Context, q model.CatalogQuery) (model.CatalogPage, error) {
	q = u.Normalize(q)

	if u.external != nil {
		page, err := u.listExternal(ctx, q)
		if err == nil {
			return page, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.CatalogPage{}, fmt.Errorf("%w: %w", ErrFailedToListCatalog, ctxErr)
		}
		u.logger.Warn("external catalog failed, serving local catalog",
			slog.String("error", err.Error()),
			slog.String("search", q.Search),
			slog.Int("page", q.Page),
		)
	}

	return u.listLocal(ctx, q)
}

// CacheKey identifies an external listing in the cache.
func CacheKey(q model.CatalogQuery) string {
	term := q.Search
	if term == "" {
		term = "trending"
	}
	return "catalog:" + strings.ToLower(term) + ":p" + strconv.Itoa(q.Page)
}

func (u *Usecase) listExternal(ctx context.Context, q model.CatalogQuery) (model.CatalogPage, error) {
	key := CacheKey(q)
	cached, ok, err := u.pages.Get(ctx, key)
	if err != nil {
		u.logger.Warn("catalog cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if ok {
		return cached, nil
	}

	page, err := withRetry(ctx, u.settings.RetryDelay, u.logger, func(ctx context.Context) (model.CatalogPage, error) {
		if q.Search != "" {
			return u.external.Search(ctx, q.Search, q.Page)
		}
		return u.external.Trending(ctx, q.Page)
	})
	if err != nil {
		return model.CatalogPage{}, err
	}
	page.Source = model.SourceExternal

	if err := u.pages.Set(ctx, key, page, u.settings.ListingTTL); err != nil {
		u.logger.Warn("catalog cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return page, nil
}

// withRetry makes one extra attempt after RetryDelay when the first
// call fails with a transient error.
func withRetry[T any](ctx context.Context, delay time.Duration, logger *slog.Logger, call func(context.Context) (T, error)) (T, error) {
	v, err := call(ctx)
	if err == nil || !errors.Is(err, model.ErrUpstreamTransient) {
		return v, err
	}

	logger.Info("external catalog call failed, retrying",
		slog.String("error", err.Error()),
		slog.Duration("delay", delay),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-timer.C:
	}

	v, err = call(ctx)
	if err != nil && errors.Is(err, model.ErrUpstreamTransient) {
		return v, fmt.Errorf("%w: %w", model.ErrUpstreamUnavailable, err)
	}
	return v, err
}

func (u *Usecase) listLocal(ctx context.Context, q model.CatalogQuery) (model.CatalogPage, error) {
	movies, total, err := u.local.List(ctx, q)
	if err != nil {
		return model.CatalogPage{}, fmt.Errorf("%w: %w", ErrFailedToListCatalog, err)
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	return model.CatalogPage{
		Movies:     movies,
		Page:       q.Page,
		TotalPages: TotalPages(total, q.PageSize),
		Total:      total,
		Source:     model.SourceLocal,
	}, nil
}

// TotalPages is never below one, so an empty catalog still has a first page.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// GetMovie resolves a single movie. Native ids are served from the local
// catalog only. External ids prefer a local record carrying that id and
// otherwise ask the external catalog.
func (u *Usecase) GetMovie(ctx context.Context, rawID string) (model.Movie, error) {
	ref := model.ClassifyMovieID(rawID)
	if ref.ID() == "" {
		return model.Movie{}, fmt.Errorf("%w: empty movie id", model.ErrNotFound)
	}

	if ref.IsNative() {
		m, err := u.local.LoadByID(ctx, ref.ID())
		if err != nil {
			return model.Movie{}, wrapLoad(err)
		}
		return m, nil
	}

	m, err := u.local.LoadByExternalID(ctx, ref.ID())
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Movie{}, wrapLoad(err)
	}

	if u.external == nil {
		return model.Movie{}, fmt.Errorf("%w: movie %s", model.ErrNotFound, ref.ID())
	}

	key := "movie:" + ref.ID()
	if cached, ok, err := u.movies.Get(ctx, key); err != nil {
		u.logger.Warn("movie cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if ok {
		return cached, nil
	}

	m, err = withRetry(ctx, u.settings.RetryDelay, u.logger, func(ctx context.Context) (model.Movie, error) {
		return u.external.Details(ctx, ref.ID())
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Movie{}, err
		}
		return model.Movie{}, wrapLoad(err)
	}

	if err := u.movies.Set(ctx, key, m, u.settings.DetailsTTL); err != nil {
		u.logger.Warn("movie cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return m, nil
}

func wrapLoad(err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrFailedToLoadMovie, err)
}
