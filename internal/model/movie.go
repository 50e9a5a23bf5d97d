package model

import (
	"path"
	"time"
)

const EmptyTitle string = ""

// Movie is a catalog entry. AverageRating and ReviewCount are derived from
// the reviews referencing the movie and are only written by the aggregator.
type Movie struct {
	ID          string
	ExternalID  string
	Title       string
	Description string
	ReleaseYear *int
	Genres      []string
	PosterURL   string

	AverageRating float64
	ReviewCount   int

	CreatedAt time.Time
}

// Ref returns the native ref for stored movies and the external ref for
// movies that only exist in the external catalog.
func (m Movie) Ref() MovieRef {
	if m.ID != "" {
		if ref, err := NewNativeRef(m.ID); err == nil {
			return ref
		}
	}
	return NewExternalRef(m.ExternalID)
}

// LinkedRefs lists every ref reviews of this movie may have been stored under.
func (m Movie) LinkedRefs() []MovieRef {
	refs := make([]MovieRef, 0, 2)
	if ref, err := NewNativeRef(m.ID); err == nil {
		refs = append(refs, ref)
	}
	if m.ExternalID != "" {
		refs = append(refs, NewExternalRef(m.ExternalID))
	}
	return refs
}

type MovieDraft struct {
	Title       string   `validate:"required,max=256"`
	Description string   `validate:"max=4096"`
	ReleaseYear *int     `validate:"omitempty,gte=1870,lte=2100"`
	Genres      []string `validate:"max=16,dive,required,max=64"`
	PosterURL   string   `validate:"omitempty,url"`
	ExternalID  string   `validate:"omitempty,max=64,notnative"`
}

type RatingAggregate struct {
	Average float64
	Count   int
}

type CatalogSource string

const (
	SourceLocal    CatalogSource = "local"
	SourceExternal CatalogSource = "external"
)

type CatalogQuery struct {
	Page     int
	PageSize int
	Search   string
}

type CatalogPage struct {
	Movies     []Movie
	Page       int
	TotalPages int
	Total      int
	Source     CatalogSource
}

type Poster struct {
	Filename    string
	Content     []byte
	ContentType string

	MovieID string
}

func (r Poster) GetFilename() string {
	return path.Base(r.Filename)
}

func (r Poster) GetContent() []byte {
	return r.Content
}

func (r Poster) GetParent() string {
	return r.MovieID
}
