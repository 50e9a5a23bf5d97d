package usecase_rating

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/humanbelnik/kinoreview/internal/model"
)

var ErrFailedToUpdateAggregate = errors.New("failed to update movie aggregate")

// Repository applies compute to the full current rating set of a movie and
// stores the result as one atomic step scoped to that movie.
type Repository interface {
	UpdateAggregate(
		ctx context.Context,
		movieID string,
		compute func(ratings []int) model.RatingAggregate,
	) (model.RatingAggregate, error)
}

type Usecase struct {
	repository Repository
}

func New(repository Repository) *Usecase {
	return &Usecase{repository: repository}
}

func (u *Usecase) Recompute(ctx context.Context, movieID string) (model.RatingAggregate, error) {
	agg, err := u.repository.UpdateAggregate(ctx, movieID, Aggregate)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.RatingAggregate{}, err
		}
		return model.RatingAggregate{}, fmt.Errorf("%w: %w", ErrFailedToUpdateAggregate, err)
	}
	return agg, nil
}

// Aggregate returns the review count and the mean rating rounded half away
// from zero to one decimal place. No ratings yield a zero average.
func Aggregate(ratings []int) model.RatingAggregate {
	if len(ratings) == 0 {
		return model.RatingAggregate{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := math.Round(float64(10*sum)/float64(len(ratings))) / 10
	return model.RatingAggregate{Average: avg, Count: len(ratings)}
}
