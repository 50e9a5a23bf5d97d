package http_common

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/kinoreview/internal/model"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// Status maps a domain error onto an HTTP status. Conflict is checked before
// the generic client errors so an email clash stays 409.
func Status(err error) int {
	switch {
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrDuplicateReview):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Abort writes err as an ErrorResponse. Server errors are logged at Error
// and hide their details; client errors are logged at Warn.
func Abort(ctx *gin.Context, logger *slog.Logger, err error, title string) {
	code := Status(err)
	resp := ErrorResponse{
		Error: title,
		Code:  code,
	}

	if code >= http.StatusInternalServerError {
		logger.Error(title,
			slog.String("error", err.Error()),
			slog.String("path", ctx.FullPath()),
		)
		resp.Message = "internal error"
	} else {
		logger.Warn(title,
			slog.String("error", err.Error()),
			slog.String("path", ctx.FullPath()),
		)
		resp.Message = err.Error()
	}

	ctx.AbortWithStatusJSON(code, resp)
}

// BadRequest rejects a request that failed binding before reaching a usecase.
func BadRequest(ctx *gin.Context, logger *slog.Logger, err error, title string) {
	logger.Warn(title, slog.String("error", err.Error()))
	ctx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   title,
		Message: err.Error(),
		Code:    http.StatusBadRequest,
	})
}
