package http_auth_middleware

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinoreview/internal/delivery/http/common"
	"github.com/humanbelnik/kinoreview/internal/model"
)

const principalKey = "principal"

type Authenticator interface {
	Authenticate(token string) (model.Principal, error)
}

type Middleware struct {
	authenticator Authenticator
	logger        *slog.Logger
}

type Option func(*Middleware)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		m.logger = logger
	}
}

func New(
	authenticator Authenticator,
	opts ...Option,
) *Middleware {
	m := &Middleware{
		authenticator: authenticator,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Optional attaches the caller when a bearer token is present. Requests
// without a token pass through as guests; a bad token is rejected.
func (m *Middleware) Optional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearer(ctx)
		if !ok {
			ctx.Next()
			return
		}
		if !m.attach(ctx, token) {
			return
		}
		ctx.Next()
	}
}

func (m *Middleware) Required() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearer(ctx)
		if !ok {
			http_common.Abort(ctx, m.logger,
				fmt.Errorf("%w: no bearer token", model.ErrUnauthorized), "Authentication required")
			return
		}
		if !m.attach(ctx, token) {
			return
		}
		ctx.Next()
	}
}

func (m *Middleware) AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearer(ctx)
		if !ok {
			http_common.Abort(ctx, m.logger,
				fmt.Errorf("%w: no bearer token", model.ErrUnauthorized), "Authentication required")
			return
		}
		if !m.attach(ctx, token) {
			return
		}

		p, _ := PrincipalFrom(ctx)
		if !p.IsAdmin {
			http_common.Abort(ctx, m.logger,
				fmt.Errorf("%w: user %s is not an admin", model.ErrForbidden, p.UserID), "Forbidden")
			return
		}
		ctx.Next()
	}
}

func (m *Middleware) attach(ctx *gin.Context, token string) bool {
	p, err := m.authenticator.Authenticate(token)
	if err != nil {
		http_common.Abort(ctx, m.logger, err, "Invalid token")
		return false
	}
	ctx.Set(principalKey, p)
	return true
}

func PrincipalFrom(ctx *gin.Context) (model.Principal, bool) {
	v, ok := ctx.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}

func bearer(ctx *gin.Context) (string, bool) {
	header := strings.TrimSpace(ctx.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
