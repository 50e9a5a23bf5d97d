package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/humanbelnik/kinoreview/internal/config"
	infra_s3 "github.com/humanbelnik/kinoreview/internal/infra/s3"
	"github.com/humanbelnik/kinoreview/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type MockS3Suite struct {
	suite.Suite
}

func (s *MockS3Suite) TestObjectLifecycle(t provider.T) {
	t.Parallel()
	server := httptest.NewServer(NewMockS3Server("posters").Handler())
	defer server.Close()

	do := func(method, path string, body []byte) *http.Response {
		req, err := http.NewRequest(method, server.URL+path, bytes.NewReader(body))
		assert.NoError(t, err)
		if body != nil {
			req.Header.Set("Content-Type", "image/png")
		}
		resp, err := http.DefaultClient.Do(req)
		assert.NoError(t, err)
		return resp
	}

	resp := do(http.MethodHead, "/posters", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(http.MethodHead, "/other", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(http.MethodPut, "/posters/poster/1.png", []byte("png"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(http.MethodGet, "/posters/poster/1.png", nil)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, []byte("png"), body)

	resp = do(http.MethodDelete, "/posters/poster/1.png", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(http.MethodGet, "/posters/poster/1.png", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (s *MockS3Suite) TestServesPosterStorage(t provider.T) {
	t.Parallel()
	server := httptest.NewServer(NewMockS3Server("posters").Handler())
	defer server.Close()

	client := infra_s3.MustEstablishConn(config.S3{ClientType: config.S3ClientMock, MockEndpoint: server.URL})
	storage, err := infra_s3.New("posters", client, "poster", infra_s3.WithPublicURL(server.URL+"/posters"))
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key, err := storage.Save(ctx, &model.Poster{
		Filename:    "matrix.png",
		Content:     []byte("png"),
		ContentType: "image/png",
		MovieID:     "507f1f77bcf86cd799439011",
	}, nil)
	assert.NoError(t, err)

	resp, err := http.Get(storage.URL(key))
	assert.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, []byte("png"), body)

	assert.NoError(t, storage.Delete(ctx, key))
}

func TestMockS3Suite(t *testing.T) {
	suite.RunSuite(t, new(MockS3Suite))
}
