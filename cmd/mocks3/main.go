package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/humanbelnik/kinoreview/internal/config"
	infra_logging "github.com/humanbelnik/kinoreview/internal/infra/logging"
)

// mocks3 serves the path-style subset of the S3 API that the poster store
// uses. Run it with S3_CLIENT_TYPE=mock pointed at MOCK_S3_ENDPOINT.
func main() {
	cfg := config.Load()
	if _, err := infra_logging.Setup(cfg.Log); err != nil {
		panic(err)
	}

	addr := os.Getenv("MOCK_S3_ADDR")
	if addr == "" {
		addr = ":9090"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMockS3Server(cfg.S3.Bucket).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("mock s3 listening", slog.String("addr", addr), slog.String("bucket", cfg.S3.Bucket))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mock s3 stopped", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down mock s3")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
