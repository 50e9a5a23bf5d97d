package infra_tmdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/humanbelnik/kinoreview/internal/model"
)

// Catalog exposes the client as an external movie catalog.
type Catalog struct {
	client       *Client
	imageBaseURL string
}

func NewCatalog(client *Client, imageBaseURL string) *Catalog {
	return &Catalog{
		client:       client,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
	}
}

func (c *Catalog) Trending(ctx context.Context, page int) (model.CatalogPage, error) {
	resp, err := c.client.TrendingMovies(ctx, page)
	if err != nil {
		return model.CatalogPage{}, err
	}
	return c.toPage(resp, page), nil
}

func (c *Catalog) Search(ctx context.Context, query string, page int) (model.CatalogPage, error) {
	resp, err := c.client.SearchMovie(ctx, query, page)
	if err != nil {
		return model.CatalogPage{}, err
	}
	return c.toPage(resp, page), nil
}

// Details only knows numeric catalog ids; anything else is not found.
func (c *Catalog) Details(ctx context.Context, externalID string) (model.Movie, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(externalID), 10, 64)
	if err != nil || id <= 0 {
		return model.Movie{}, fmt.Errorf("%w: external movie %q", model.ErrNotFound, externalID)
	}

	res, err := c.client.GetMovieDetails(ctx, id)
	if err != nil {
		return model.Movie{}, err
	}
	return c.ToMovie(*res), nil
}

func (c *Catalog) toPage(resp *Response, requested int) model.CatalogPage {
	movies := make([]model.Movie, 0, len(resp.Results))
	for _, r := range resp.Results {
		movies = append(movies, c.ToMovie(r))
	}

	page := resp.Page
	if page < 1 {
		page = requested
	}
	totalPages := resp.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}

	return model.CatalogPage{
		Movies:     movies,
		Page:       page,
		TotalPages: totalPages,
		Total:      resp.TotalResults,
		Source:     model.SourceExternal,
	}
}

// ToMovie maps a catalog entry onto a movie without a native key.
func (c *Catalog) ToMovie(r Result) model.Movie {
	title := r.Title
	if title == "" {
		title = r.Name
	}

	genres := make([]string, 0, len(r.Genres))
	for _, g := range r.Genres {
		genres = append(genres, g.Name)
	}

	m := model.Movie{
		ExternalID:    strconv.FormatInt(r.ID, 10),
		Title:         title,
		Description:   r.Overview,
		ReleaseYear:   releaseYear(r.ReleaseDate),
		Genres:        genres,
		AverageRating: r.VoteAverage,
	}
	if r.PosterPath != "" {
		m.PosterURL = c.imageBaseURL + r.PosterPath
	}
	return m
}

func releaseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return nil
	}
	return &year
}
