package infra_postgres_movie

import (
	"database/sql"
	"time"

	"github.com/humanbelnik/kinoreview/internal/model"
	"github.com/lib/pq"
)

type MovieDB struct {
	ID            string         `db:"id"`
	ExternalID    sql.NullString `db:"external_id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	ReleaseYear   sql.NullInt32  `db:"release_year"`
	Genres        pq.StringArray `db:"genres"`
	PosterURL     string         `db:"poster_url"`
	AverageRating float64        `db:"average_rating"`
	ReviewCount   int            `db:"review_count"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (m *MovieDB) ToDomain() model.Movie {
	mm := model.Movie{
		ID:            m.ID,
		ExternalID:    m.ExternalID.String,
		Title:         m.Title,
		Description:   m.Description,
		Genres:        []string(m.Genres),
		PosterURL:     m.PosterURL,
		AverageRating: m.AverageRating,
		ReviewCount:   m.ReviewCount,
		CreatedAt:     m.CreatedAt,
	}
	if mm.Genres == nil {
		mm.Genres = []string{}
	}
	if m.ReleaseYear.Valid {
		year := int(m.ReleaseYear.Int32)
		mm.ReleaseYear = &year
	}
	return mm
}

func FromDomain(mm model.Movie) MovieDB {
	m := MovieDB{
		ID:            mm.ID,
		ExternalID:    sql.NullString{String: mm.ExternalID, Valid: mm.ExternalID != ""},
		Title:         mm.Title,
		Description:   mm.Description,
		Genres:        pq.StringArray(mm.Genres),
		PosterURL:     mm.PosterURL,
		AverageRating: mm.AverageRating,
		ReviewCount:   mm.ReviewCount,
		CreatedAt:     mm.CreatedAt,
	}
	if m.Genres == nil {
		m.Genres = pq.StringArray{}
	}
	if mm.ReleaseYear != nil {
		m.ReleaseYear = sql.NullInt32{Int32: int32(*mm.ReleaseYear), Valid: true}
	}
	return m
}
