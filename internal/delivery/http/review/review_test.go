package http_review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_auth_middleware "github.com/humanbelnik/kinoreview/internal/delivery/http/middleware/auth"
	"github.com/humanbelnik/kinoreview/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type reviewsMock struct{ mock.Mock }

func (m *reviewsMock) Submit(ctx context.Context, d model.ReviewDraft) (model.Review, error) {
	ret := m.Called(d)
	return ret.Get(0).(model.Review), ret.Error(1)
}

func (m *reviewsMock) List(ctx context.Context, rawID string) ([]model.Review, error) {
	ret := m.Called(rawID)
	return ret.Get(0).([]model.Review), ret.Error(1)
}

type tokens map[string]model.Principal

func (t tokens) Authenticate(token string) (model.Principal, error) {
	p, ok := t[token]
	if !ok {
		return model.Principal{}, fmt.Errorf("%w: unknown token", model.ErrUnauthorized)
	}
	return p, nil
}

type ReviewControllerSuite struct {
	suite.Suite
}

type resources struct {
	reviews *reviewsMock
	engine  *gin.Engine
}

func initResources(t provider.T) *resources {
	gin.SetMode(gin.TestMode)
	r := &resources{reviews: &reviewsMock{}, engine: gin.New()}
	r.reviews.Test(t)
	t.Cleanup(func() { r.reviews.AssertExpectations(t) })

	mw := http_auth_middleware.New(tokens{"neo-token": {UserID: "u1", Name: "neo"}})
	New(r.reviews, mw).RegisterRoutes(r.engine.Group("/api/v1"))
	return r
}

func post(movieID, body, token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/movies/"+movieID+"/reviews", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

var createdAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func (s *ReviewControllerSuite) TestSubmit(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		body       string
		token      string
		expect     model.ReviewDraft
		result     model.Review
		err        error
		expectCode int
	}{
		{
			name:       "guest review",
			body:       `{"rating":5,"comment":"Great"}`,
			expect:     model.ReviewDraft{MovieID: "603", Rating: 5, Comment: "Great"},
			result:     model.Review{ID: uuid.New(), Rating: 5, Comment: "Great", DisplayName: "Guest", CreatedAt: createdAt},
			expectCode: http.StatusCreated,
		},
		{
			name:       "signed in review takes the account name",
			body:       `{"rating":4,"comment":"Good"}`,
			token:      "neo-token",
			expect:     model.ReviewDraft{MovieID: "603", Rating: 4, Comment: "Good", UserID: "u1", DisplayName: "neo"},
			result:     model.Review{ID: uuid.New(), Rating: 4, Comment: "Good", DisplayName: "neo", UserID: "u1", CreatedAt: createdAt},
			expectCode: http.StatusCreated,
		},
		{
			name:       "explicit display name wins",
			body:       `{"rating":4,"comment":"Good","displayName":"The One"}`,
			token:      "neo-token",
			expect:     model.ReviewDraft{MovieID: "603", Rating: 4, Comment: "Good", UserID: "u1", DisplayName: "The One"},
			result:     model.Review{ID: uuid.New(), DisplayName: "The One", CreatedAt: createdAt},
			expectCode: http.StatusCreated,
		},
		{
			name:       "rating out of range",
			body:       `{"rating":6,"comment":"Great"}`,
			expect:     model.ReviewDraft{MovieID: "603", Rating: 6, Comment: "Great"},
			err:        fmt.Errorf("%w: Rating must be at most 5", model.ErrValidation),
			expectCode: http.StatusBadRequest,
		},
		{
			name:       "second review by same user",
			body:       `{"rating":3,"comment":"Again"}`,
			token:      "neo-token",
			expect:     model.ReviewDraft{MovieID: "603", Rating: 3, Comment: "Again", UserID: "u1", DisplayName: "neo"},
			err:        model.ErrDuplicateReview,
			expectCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			r.reviews.On("Submit", tc.expect).Return(tc.result, tc.err).Once()

			w := httptest.NewRecorder()
			r.engine.ServeHTTP(w, post("603", tc.body, tc.token))

			assert.Equal(t, tc.expectCode, w.Code)
			if tc.expectCode == http.StatusCreated {
				var got ReviewResponseDTO
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, ToResponse(tc.result), got)
			}
		})
	}
}

func (s *ReviewControllerSuite) TestSubmitWithForgedToken(t provider.T) {
	t.Parallel()
	r := initResources(t)

	w := httptest.NewRecorder()
	r.engine.ServeHTTP(w, post("603", `{"rating":5,"comment":"x"}`, "forged"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	r.reviews.AssertNotCalled(t, "Submit", mock.Anything)
}

func (s *ReviewControllerSuite) TestSubmitMalformedBody(t provider.T) {
	t.Parallel()
	r := initResources(t)

	w := httptest.NewRecorder()
	r.engine.ServeHTTP(w, post("603", `{"rating":"five"`, ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (s *ReviewControllerSuite) TestList(t provider.T) {
	t.Parallel()
	r := initResources(t)

	newer := model.Review{ID: uuid.New(), Rating: 5, Comment: "a", DisplayName: "neo", CreatedAt: createdAt}
	older := model.Review{ID: uuid.New(), Rating: 2, Comment: "b", DisplayName: "Guest", CreatedAt: createdAt.Add(-time.Hour)}
	r.reviews.On("List", "603").Return([]model.Review{newer, older}, nil).Once()
	r.reviews.On("List", "404").Return([]model.Review{}, nil).Once()

	w := httptest.NewRecorder()
	r.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/movies/603/reviews", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var got []ReviewResponseDTO
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []ReviewResponseDTO{ToResponse(newer), ToResponse(older)}, got)

	w = httptest.NewRecorder()
	r.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/movies/404/reviews", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestReviewControllerSuite(t *testing.T) {
	suite.RunSuite(t, new(ReviewControllerSuite))
}
