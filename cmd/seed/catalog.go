package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/humanbelnik/kinoreview/internal/model"
	"github.com/pelletier/go-toml/v2"
)

//go:embed catalog.toml
var bundledCatalog []byte

type catalogFile struct {
	Movies []catalogMovie `toml:"movie"`
}

type catalogMovie struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	ReleaseYear int      `toml:"release_year"`
	Genres      []string `toml:"genres"`
	PosterURL   string   `toml:"poster_url"`
	ExternalID  string   `toml:"external_id"`
}

func (m catalogMovie) toDraft() model.MovieDraft {
	d := model.MovieDraft{
		Title:       m.Title,
		Description: m.Description,
		Genres:      m.Genres,
		PosterURL:   m.PosterURL,
		ExternalID:  m.ExternalID,
	}
	if m.ReleaseYear != 0 {
		year := m.ReleaseYear
		d.ReleaseYear = &year
	}
	return d
}

// loadCatalog reads drafts from path, or from the bundled catalog when path
// is empty.
func loadCatalog(path string) ([]model.MovieDraft, error) {
	data := bundledCatalog
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = raw
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) ([]model.MovieDraft, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Movies) == 0 {
		return nil, fmt.Errorf("parse catalog: no [[movie]] entries")
	}

	drafts := make([]model.MovieDraft, len(file.Movies))
	for i, m := range file.Movies {
		drafts[i] = m.toDraft()
	}
	return drafts, nil
}
