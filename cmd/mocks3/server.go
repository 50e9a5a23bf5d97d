package main

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const maxObjectSize = 10 << 20

type object struct {
	content     []byte
	contentType string
}

type MockS3Server struct {
	bucket string

	mu      sync.RWMutex
	objects map[string]object
}

func NewMockS3Server(bucket string) *MockS3Server {
	return &MockS3Server{
		bucket:  bucket,
		objects: make(map[string]object),
	}
}

func (m *MockS3Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.HEAD("/:bucket", m.headBucket)
	engine.HEAD("/:bucket/*key", m.headObject)
	engine.GET("/:bucket/*key", m.getObject)
	engine.PUT("/:bucket/*key", m.putObject)
	engine.DELETE("/:bucket/*key", m.deleteObject)
	return engine
}

// s3Error mimics the XML error body the SDK parses.
func s3Error(ctx *gin.Context, status int, code string) {
	ctx.Data(status, "application/xml",
		[]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>`+code+`</Code></Error>`))
}

// target resolves the object key, rejecting other buckets.
func (m *MockS3Server) target(ctx *gin.Context) (string, bool) {
	if ctx.Param("bucket") != m.bucket {
		s3Error(ctx, http.StatusNotFound, "NoSuchBucket")
		return "", false
	}
	key := strings.TrimPrefix(ctx.Param("key"), "/")
	if key == "" {
		s3Error(ctx, http.StatusBadRequest, "InvalidRequest")
		return "", false
	}
	return key, true
}

func (m *MockS3Server) headBucket(ctx *gin.Context) {
	if ctx.Param("bucket") != m.bucket {
		ctx.Status(http.StatusNotFound)
		return
	}
	ctx.Status(http.StatusOK)
}

func (m *MockS3Server) headObject(ctx *gin.Context) {
	key, ok := m.target(ctx)
	if !ok {
		return
	}
	m.mu.RLock()
	_, exists := m.objects[key]
	m.mu.RUnlock()
	if !exists {
		ctx.Status(http.StatusNotFound)
		return
	}
	ctx.Status(http.StatusOK)
}

func (m *MockS3Server) getObject(ctx *gin.Context) {
	key, ok := m.target(ctx)
	if !ok {
		return
	}
	m.mu.RLock()
	obj, exists := m.objects[key]
	m.mu.RUnlock()
	if !exists {
		s3Error(ctx, http.StatusNotFound, "NoSuchKey")
		return
	}
	ctx.Data(http.StatusOK, obj.contentType, obj.content)
}

func (m *MockS3Server) putObject(ctx *gin.Context) {
	key, ok := m.target(ctx)
	if !ok {
		return
	}
	content, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxObjectSize+1))
	if err != nil {
		s3Error(ctx, http.StatusBadRequest, "IncompleteBody")
		return
	}
	if len(content) > maxObjectSize {
		s3Error(ctx, http.StatusBadRequest, "EntityTooLarge")
		return
	}

	contentType := ctx.GetHeader("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	m.mu.Lock()
	m.objects[key] = object{content: content, contentType: contentType}
	m.mu.Unlock()

	ctx.Header("ETag", `"mock"`)
	ctx.Status(http.StatusOK)
}

func (m *MockS3Server) deleteObject(ctx *gin.Context) {
	key, ok := m.target(ctx)
	if !ok {
		return
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	ctx.Status(http.StatusNoContent)
}
