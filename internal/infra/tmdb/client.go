package infra_tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/humanbelnik/kinoreview/internal/model"
)

// Result is a single movie entry as returned by search, trending and details.
type Result struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Name        string  `json:"name"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
	GenreIDs    []int64 `json:"genre_ids"`
	Genres      []Genre `json:"genres"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Response models a paginated listing.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) SearchMovie(ctx context.Context, query string, page int) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var payload Response
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return nil, fmt.Errorf("tmdb movie search: %w", err)
	}
	return &payload, nil
}

func (c *Client) TrendingMovies(ctx context.Context, page int) (*Response, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var payload Response
	if err := c.get(ctx, "/trending/movie/week", params, &payload); err != nil {
		return nil, fmt.Errorf("tmdb trending: %w", err)
	}
	return &payload, nil
}

func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*Result, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}

	var payload Result
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), url.Values{}, &payload); err != nil {
		return nil, fmt.Errorf("tmdb movie details: %w", err)
	}
	return &payload, nil
}

// get classifies failures: transport errors, 429 and 5xx are transient, 404
// is not found, anything else means the catalog cannot serve the request.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("%w: execute request (latency=%v): %w", model.ErrUpstreamTransient, latency, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: returned %d (latency=%v)", model.ErrNotFound, resp.StatusCode, latency)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: returned %d (latency=%v)", model.ErrUpstreamTransient, resp.StatusCode, latency)
	default:
		return fmt.Errorf("%w: returned %d (latency=%v)", model.ErrUpstreamUnavailable, resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", model.ErrUpstreamUnavailable, err)
	}
	return nil
}
