package infra_mongo_movie

import (
	"time"

	"github.com/humanbelnik/kinoreview/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type MovieDoc struct {
	ID               bson.ObjectID `bson:"_id"`
	ExternalID       string        `bson:"external_id,omitempty"`
	Title            string        `bson:"title"`
	Description      string        `bson:"description"`
	ReleaseYear      *int          `bson:"release_year,omitempty"`
	Genres           []string      `bson:"genres"`
	PosterURL        string        `bson:"poster_url"`
	AverageRating    float64       `bson:"average_rating"`
	ReviewCount      int           `bson:"review_count"`
	AggregateVersion int64         `bson:"aggregate_version"`
	CreatedAt        time.Time     `bson:"created_at"`
}

func (m *MovieDoc) ToDomain() model.Movie {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return model.Movie{
		ID:            m.ID.Hex(),
		ExternalID:    m.ExternalID,
		Title:         m.Title,
		Description:   m.Description,
		ReleaseYear:   m.ReleaseYear,
		Genres:        genres,
		PosterURL:     m.PosterURL,
		AverageRating: m.AverageRating,
		ReviewCount:   m.ReviewCount,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

func FromDomain(m model.Movie) (MovieDoc, error) {
	oid, err := bson.ObjectIDFromHex(m.ID)
	if err != nil {
		return MovieDoc{}, model.ErrInvalidNativeID
	}
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return MovieDoc{
		ID:            oid,
		ExternalID:    m.ExternalID,
		Title:         m.Title,
		Description:   m.Description,
		ReleaseYear:   m.ReleaseYear,
		Genres:        genres,
		PosterURL:     m.PosterURL,
		AverageRating: m.AverageRating,
		ReviewCount:   m.ReviewCount,
		CreatedAt:     m.CreatedAt,
	}, nil
}
