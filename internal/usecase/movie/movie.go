package usecase_movie

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/humanbelnik/kinoreview/internal/model"
)

var (
	ErrFailedToStoreMeta   = errors.New("failed to store meta")
	ErrFailedToLoadMeta    = errors.New("failed to load meta")
	ErrFailedToStorePoster = errors.New("failed to store poster")
	ErrFailedToAggregate   = errors.New("failed to aggregate ratings")
)

type Repository interface {
	Store(ctx context.Context, m model.Movie) error
	LoadByID(ctx context.Context, id string) (model.Movie, error)
	UpdateContent(ctx context.Context, m model.Movie) error
	SetPoster(ctx context.Context, id string, url string) error
	Count(ctx context.Context) (int, error)
}

type PosterRepository interface {
	Save(ctx context.Context, obj *model.Poster, readyKey *string) (string, error)
	URL(key string) string
	Delete(ctx context.Context, key string) error
}

// Aggregator recomputes the derived rating fields of a local movie.
type Aggregator interface {
	Recompute(ctx context.Context, movieID string) (model.RatingAggregate, error)
}

type Usecase struct {
	repository       Repository
	posterRepository PosterRepository
	aggregator       Aggregator
	now              func() time.Time
}

func New(
	repository Repository,
	posterRepository PosterRepository,
	aggregator Aggregator,
) *Usecase {
	return &Usecase{
		repository:       repository,
		posterRepository: posterRepository,
		aggregator:       aggregator,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Upload creates a local movie with a fresh native key. Derived rating
// fields start at zero.
func (u *Usecase) Upload(ctx context.Context, draft model.MovieDraft) (model.Movie, error) {
	draft = normalizeDraft(draft)
	if err := model.Validate(draft); err != nil {
		return model.Movie{}, err
	}

	m := model.Movie{
		ID:          model.NewNativeID(),
		ExternalID:  draft.ExternalID,
		Title:       draft.Title,
		Description: draft.Description,
		ReleaseYear: draft.ReleaseYear,
		Genres:      draft.Genres,
		PosterURL:   draft.PosterURL,
		CreatedAt:   u.now(),
	}

	if err := u.repository.Store(ctx, m); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.Movie{}, err
		}
		return model.Movie{}, fmt.Errorf("%w: %w", ErrFailedToStoreMeta, err)
	}

	return m, nil
}

// Import uploads drafts in order and stops at the first failure, returning
// what was stored so far.
func (u *Usecase) Import(ctx context.Context, drafts []model.MovieDraft) ([]model.Movie, error) {
	stored := make([]model.Movie, 0, len(drafts))
	for i, d := range drafts {
		m, err := u.Upload(ctx, d)
		if err != nil {
			return stored, fmt.Errorf("movie #%d %q: %w", i+1, d.Title, err)
		}
		stored = append(stored, m)
	}
	return stored, nil
}

func (u *Usecase) Count(ctx context.Context) (int, error) {
	n, err := u.repository.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToLoadMeta, err)
	}
	return n, nil
}

func (u *Usecase) GetMovieByID(ctx context.Context, id string) (model.Movie, error) {
	ref, err := model.NewNativeRef(id)
	if err != nil {
		return model.Movie{}, fmt.Errorf("%w: movie %s", model.ErrNotFound, id)
	}

	m, err := u.repository.LoadByID(ctx, ref.ID())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Movie{}, err
		}
		return model.Movie{}, fmt.Errorf("%w: %w", ErrFailedToLoadMeta, err)
	}

	return m, nil
}

// UpdateMovie rewrites content fields. The rating aggregate is kept unless
// the external id changes, since reviews filed under the old or new external
// key then move in or out of this movie's rating set.
func (u *Usecase) UpdateMovie(ctx context.Context, id string, draft model.MovieDraft) (model.Movie, error) {
	current, err := u.GetMovieByID(ctx, id)
	if err != nil {
		return model.Movie{}, err
	}

	draft = normalizeDraft(draft)
	if err := model.Validate(draft); err != nil {
		return model.Movie{}, err
	}

	externalChanged := current.ExternalID != draft.ExternalID
	current.ExternalID = draft.ExternalID
	current.Title = draft.Title
	current.Description = draft.Description
	current.ReleaseYear = draft.ReleaseYear
	current.Genres = draft.Genres
	if draft.PosterURL != "" {
		current.PosterURL = draft.PosterURL
	}

	if err := u.repository.UpdateContent(ctx, current); err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrConflict) {
			return model.Movie{}, err
		}
		return model.Movie{}, fmt.Errorf("failed to update meta: %w", err)
	}

	if externalChanged {
		agg, err := u.aggregator.Recompute(ctx, current.ID)
		if err != nil {
			return model.Movie{}, fmt.Errorf("%w: %w", ErrFailedToAggregate, err)
		}
		current.AverageRating = agg.Average
		current.ReviewCount = agg.Count
	}

	return current, nil
}

func (u *Usecase) UploadPoster(ctx context.Context, id string, poster model.Poster) (model.Movie, error) {
	m, err := u.GetMovieByID(ctx, id)
	if err != nil {
		return model.Movie{}, err
	}
	if len(poster.Content) == 0 || poster.Filename == "" {
		return model.Movie{}, fmt.Errorf("%w: poster file is empty", model.ErrValidation)
	}

	poster.MovieID = m.ID
	key, err := u.posterRepository.Save(ctx, &poster, nil)
	if err != nil {
		return model.Movie{}, fmt.Errorf("%w: %w", ErrFailedToStorePoster, err)
	}

	url := u.posterRepository.URL(key)
	if err := u.repository.SetPoster(ctx, m.ID, url); err != nil {
		if delErr := u.posterRepository.Delete(ctx, key); delErr != nil {
			err = errors.Join(err, delErr)
		}
		return model.Movie{}, fmt.Errorf("%w: %w", ErrFailedToStoreMeta, err)
	}

	m.PosterURL = url
	return m, nil
}

func normalizeDraft(d model.MovieDraft) model.MovieDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.ExternalID = strings.TrimSpace(d.ExternalID)
	d.PosterURL = strings.TrimSpace(d.PosterURL)
	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	d.Genres = genres
	return d
}
