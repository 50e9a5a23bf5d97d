package usecase_review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/kinoreview/internal/model"
)

var (
	ErrFailedToStoreReview = errors.New("failed to store review")
	ErrFailedToLoadReviews = errors.New("failed to load reviews")
	ErrFailedToLoadMovie   = errors.New("failed to load movie")
	ErrFailedToAggregate   = errors.New("failed to recompute movie rating")
)

type Repository interface {
	Create(ctx context.Context, r model.Review) (model.Review, error)
	ExistsByUser(ctx context.Context, userID string, refs []model.MovieRef) (bool, error)
	ListByRef(ctx context.Context, ref model.MovieRef) ([]model.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MovieLookup interface {
	LoadByID(ctx context.Context, id string) (model.Movie, error)
	LoadByExternalID(ctx context.Context, externalID string) (model.Movie, error)
}

type Aggregator interface {
	Recompute(ctx context.Context, movieID string) (model.RatingAggregate, error)
}

type Usecase struct {
	repository Repository
	movies     MovieLookup
	aggregator Aggregator

	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

func New(
	repository Repository,
	movies MovieLookup,
	aggregator Aggregator,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		repository: repository,
		movies:     movies,
		aggregator: aggregator,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Submit stores a review and recomputes the rating of the local movie it
// belongs to before returning. Nothing is written when validation fails, and
// a review whose recompute fails is removed again so the client can retry.
func (u *Usecase) Submit(ctx context.Context, draft model.ReviewDraft) (model.Review, error) {
	draft.Comment = strings.TrimSpace(draft.Comment)
	draft.DisplayName = strings.TrimSpace(draft.DisplayName)
	if err := model.Validate(draft); err != nil {
		return model.Review{}, err
	}

	ref := model.ClassifyMovieID(draft.MovieID)
	if ref.ID() == "" {
		return model.Review{}, fmt.Errorf("%w: movie id is required", model.ErrValidation)
	}

	local, err := u.localMovie(ctx, ref)
	if err != nil {
		return model.Review{}, err
	}
	if ref.IsNative() && local == nil {
		return model.Review{}, fmt.Errorf("%w: movie %s", model.ErrNotFound, ref.ID())
	}

	if draft.UserID != "" {
		exists, err := u.repository.ExistsByUser(ctx, draft.UserID, linkedRefs(ref, local))
		if err != nil {
			return model.Review{}, fmt.Errorf("%w: %w", ErrFailedToLoadReviews, err)
		}
		if exists {
			return model.Review{}, model.ErrDuplicateReview
		}
	}

	displayName := draft.DisplayName
	if displayName == "" {
		displayName = model.DefaultDisplayName
	}

	id := uuid.New()
	stored, err := u.repository.Create(ctx, model.Review{
		ID:          id,
		Movie:       ref,
		UserID:      draft.UserID,
		DisplayName: displayName,
		Rating:      draft.Rating,
		Comment:     draft.Comment,
		CreatedAt:   u.now(),
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateReview) {
			return model.Review{}, model.ErrDuplicateReview
		}
		return model.Review{}, fmt.Errorf("%w: %w", ErrFailedToStoreReview, err)
	}

	if local != nil {
		if _, err := u.aggregator.Recompute(ctx, local.ID); err != nil {
			if delErr := u.repository.Delete(context.WithoutCancel(ctx), id); delErr != nil {
				u.logger.Error("failed to remove review after recompute failure",
					slog.String("review_id", id.String()),
					slog.String("movie_id", local.ID),
					slog.String("error", delErr.Error()),
				)
				err = errors.Join(err, delErr)
			}
			return model.Review{}, fmt.Errorf("%w: %w", ErrFailedToAggregate, err)
		}
	}

	return stored, nil
}

// List returns every review of the movie behind rawID, newest first.
// Reviews stored under the movie's other ref are included. When the
// identifier yields nothing, the other ref kind is tried for legacy records.
func (u *Usecase) List(ctx context.Context, rawID string) ([]model.Review, error) {
	ref := model.ClassifyMovieID(rawID)
	if ref.ID() == "" {
		return []model.Review{}, nil
	}

	local, err := u.localMovie(ctx, ref)
	if err != nil {
		return nil, err
	}

	reviews, err := u.collect(ctx, linkedRefs(ref, local))
	if err != nil {
		return nil, err
	}

	if len(reviews) == 0 {
		alt, ok := alternateRef(ref)
		if !ok {
			u.logger.Debug("no native match for external id", slog.String("movie_id", ref.ID()))
			return reviews, nil
		}
		reviews, err = u.collect(ctx, []model.MovieRef{alt})
		if err != nil {
			return nil, err
		}
	}

	return reviews, nil
}

func (u *Usecase) collect(ctx context.Context, refs []model.MovieRef) ([]model.Review, error) {
	seen := make(map[uuid.UUID]struct{})
	reviews := make([]model.Review, 0)
	for _, ref := range refs {
		batch, err := u.repository.ListByRef(ctx, ref)
		if err != nil {
			if errors.Is(err, model.ErrInvalidNativeID) {
				continue
			}
			return nil, fmt.Errorf("%w: %w", ErrFailedToLoadReviews, err)
		}
		for _, r := range batch {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			reviews = append(reviews, r)
		}
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

// localMovie resolves the stored movie a ref points at, nil when there is none.
func (u *Usecase) localMovie(ctx context.Context, ref model.MovieRef) (*model.Movie, error) {
	var (
		m   model.Movie
		err error
	)
	if ref.IsNative() {
		m, err = u.movies.LoadByID(ctx, ref.ID())
	} else {
		m, err = u.movies.LoadByExternalID(ctx, ref.ID())
	}
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidNativeID) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadMovie, err)
	}
	return &m, nil
}

func linkedRefs(ref model.MovieRef, local *model.Movie) []model.MovieRef {
	if local == nil {
		return []model.MovieRef{ref}
	}
	refs := []model.MovieRef{ref}
	for _, r := range local.LinkedRefs() {
		if r != ref {
			refs = append(refs, r)
		}
	}
	return refs
}

// alternateRef reinterprets the identifier as the other ref kind. External
// ids that do not fit the native key format have no alternate.
func alternateRef(ref model.MovieRef) (model.MovieRef, bool) {
	if ref.IsNative() {
		return model.NewExternalRef(ref.ID()), true
	}
	alt, err := model.NewNativeRef(ref.ID())
	if err != nil {
		return model.MovieRef{}, false
	}
	return alt, true
}
