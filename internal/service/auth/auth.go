package service_auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/kinoreview/internal/model"
)

var (
	ErrInternal         = errors.New("internal error")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidToken     = errors.New("invalid token")
	ErrSessionNotFound  = errors.New("session expired or revoked")
)

type UserRepository interface {
	Create(ctx context.Context, u model.User) error
	LoadByEmail(ctx context.Context, email string) (model.User, error)
	LoadByID(ctx context.Context, id string) (model.User, error)
}

type SessionCache interface {
	Set(key string, value string, ttl time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
}

type RegisterInput struct {
	Name     string `validate:"required,max=64"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=6,max=72"`
}

type Session struct {
	User  model.User
	Token string
}

type Service struct {
	users        UserRepository
	sessionCache SessionCache
	tokens       *TokenManager
	adminEmails  map[string]struct{}
	now          func() time.Time
}

type Option func(*Service)

// WithAdminEmails grants admin rights to accounts registered under these
// addresses. The grant is applied whenever a session is opened, so existing
// accounts are promoted on their next login.
func WithAdminEmails(emails []string) Option {
	return func(s *Service) {
		for _, e := range emails {
			if e = normalizeEmail(e); e != "" {
				s.adminEmails[e] = struct{}{}
			}
		}
	}
}

func New(
	users UserRepository,
	sessionCache SessionCache,
	tokens *TokenManager,
	opts ...Option,
) *Service {
	s := &Service{
		users:        users,
		sessionCache: sessionCache,
		tokens:       tokens,
		adminEmails:  make(map[string]struct{}),
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := model.Validate(in); err != nil {
		return Session{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, errors.Join(ErrInternal, err)
	}

	u := model.User{
		ID:           model.NewNativeID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		IsAdmin:      s.isAdminEmail(in.Email),
		Watchlist:    []string{},
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return Session{}, fmt.Errorf("%w: %w", model.ErrConflict, ErrEmailTaken)
		}
		return Session{}, errors.Join(ErrInternal, err)
	}

	return s.open(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.LoadByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return Session{}, fmt.Errorf("%w: %w", model.ErrUnauthorized, ErrWrongCredentials)
		}
		return Session{}, errors.Join(ErrInternal, err)
	}
	if !CheckPassword(password, u.PasswordHash) {
		return Session{}, fmt.Errorf("%w: %w", model.ErrUnauthorized, ErrWrongCredentials)
	}

	return s.open(u)
}

// Authenticate accepts a token only while its session is live, so Logout
// takes effect before the token expires.
func (s *Service) Authenticate(token string) (model.Principal, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %w: %w", model.ErrUnauthorized, ErrInvalidToken, err)
	}

	owner, err := s.sessionCache.Get(claims.ID)
	if err != nil {
		return model.Principal{}, errors.Join(ErrInternal, err)
	}
	if owner == "" || owner != claims.UserID {
		return model.Principal{}, fmt.Errorf("%w: %w", model.ErrUnauthorized, ErrSessionNotFound)
	}

	return model.Principal{
		UserID:    claims.UserID,
		Name:      claims.Name,
		IsAdmin:   claims.Admin,
		SessionID: claims.ID,
	}, nil
}

func (s *Service) Logout(p model.Principal) error {
	if err := s.sessionCache.Delete(p.SessionID); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *Service) Me(ctx context.Context, p model.Principal) (model.User, error) {
	u, err := s.users.LoadByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, err
		}
		return model.User{}, errors.Join(ErrInternal, err)
	}
	u.IsAdmin = u.IsAdmin || s.isAdminEmail(u.Email)
	return u, nil
}

func (s *Service) open(u model.User) (Session, error) {
	u.IsAdmin = u.IsAdmin || s.isAdminEmail(u.Email)

	sessionID := uuid.New().String()
	if err := s.sessionCache.Set(sessionID, u.ID, s.tokens.TTL()); err != nil {
		return Session{}, errors.Join(ErrInternal, err)
	}

	token, err := s.tokens.Generate(u.ID, u.Name, u.IsAdmin, sessionID)
	if err != nil {
		return Session{}, errors.Join(ErrInternal, err)
	}

	return Session{User: u, Token: token}, nil
}

func (s *Service) isAdminEmail(email string) bool {
	_, ok := s.adminEmails[normalizeEmail(email)]
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
