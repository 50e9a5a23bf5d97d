package main

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/humanbelnik/kinoreview/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type SeedSuite struct {
	suite.Suite
}

func (s *SeedSuite) TestBundledCatalog(t provider.T) {
	t.Parallel()

	drafts, err := loadCatalog("")

	assert.NoError(t, err)
	assert.NotEmpty(t, drafts)
	for _, d := range drafts {
		assert.NoError(t, model.Validate(d), d.Title)
	}
	assert.Equal(t, "The Matrix", drafts[0].Title)
	assert.Equal(t, 1999, *drafts[0].ReleaseYear)
	assert.Equal(t, "603", drafts[0].ExternalID)

	last := drafts[len(drafts)-1]
	assert.Nil(t, last.ReleaseYear)
	assert.Empty(t, last.ExternalID)
}

func (s *SeedSuite) TestCatalogFile(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		content     string
		expectLen   int
		expectError bool
	}{
		{
			name:      "Should read movies from file",
			content:   "[[movie]]\ntitle = \"Heat\"\nrelease_year = 1995\n",
			expectLen: 1,
		},
		{
			name:        "Should reject file without movies",
			content:     "title = \"Heat\"\n",
			expectError: true,
		},
		{
			name:        "Should reject malformed toml",
			content:     "[[movie]\ntitle = ",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			f, err := os.CreateTemp("", "catalog-*.toml")
			assert.NoError(t, err)
			defer os.Remove(f.Name())
			_, err = f.WriteString(tc.content)
			assert.NoError(t, err)
			assert.NoError(t, f.Close())

			drafts, err := loadCatalog(f.Name())

			if tc.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, drafts, tc.expectLen)
		})
	}
}

func (s *SeedSuite) TestRenderMovies(t provider.T) {
	t.Parallel()
	year := 1999

	out := renderMovies([]model.Movie{
		{ID: "507f1f77bcf86cd799439011", Title: "The Matrix", ReleaseYear: &year, Genres: []string{"Action", "Sci-Fi"}, CreatedAt: time.Now()},
		{ID: "507f1f77bcf86cd799439012", Title: "Home Movie"},
	})

	assert.True(t, strings.Contains(out, "The Matrix"))
	assert.True(t, strings.Contains(out, "Action, Sci-Fi"))
	assert.True(t, strings.Contains(out, "1999"))
	assert.True(t, strings.Contains(out, "Home Movie"))
}

func TestSeedSuite(t *testing.T) {
	suite.RunSuite(t, new(SeedSuite))
}
