package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"pulse-shop/internal/metrics"
	"pulse-shop/internal/model"
	"pulse-shop/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const tokenBytes = 32

// dummyHash is compared against when the email is unknown so that both
// failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("pulse-shop-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("failed to generate dummy hash: %v", err))
	}
	return h
})

// AuthOption configures the auth service.
type AuthOption func(*authService)

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) AuthOption {
	return func(s *authService) {
		s.now = now
	}
}

// WithBcryptCost overrides the cost used when hashing admin passwords.
func WithBcryptCost(cost int) AuthOption {
	return func(s *authService) {
		s.bcryptCost = cost
	}
}

// authService implements AuthService.
type authService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewAuthService creates a new auth service issuing sessions valid for sessionTTL.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	sessionTTL time.Duration,
	m *metrics.Metrics,
	logger zerolog.Logger,
	opts ...AuthOption,
) AuthService {
	s := &authService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		metrics:    m,
		logger:     logger.With().Str("service", "auth").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Login verifies the credentials of an admin user and opens a session.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req == nil {
		return nil, model.NewInvalidPayload("email and password are required")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	hash := dummyHash()
	if user != nil {
		hash = []byte(user.PasswordHash)
	}

	cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(req.Password))
	if cmpErr != nil && !errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword) {
		s.logger.Error().Err(cmpErr).Msg("failed to compare password hash")
	}

	if user == nil || cmpErr != nil || user.Role != model.RoleAdmin {
		s.metrics.LoginAttempt(metrics.LoginFailure)
		s.logger.Warn().Msg("admin login rejected")
		return nil, model.ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate session token")
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	now := s.now()
	session := &model.AdminSession{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to create session")
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	if pruned, err := s.sessions.DeleteExpired(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to prune expired sessions")
	} else if pruned > 0 {
		s.logger.Debug().Int64("user_id", user.ID).Int64("pruned", pruned).Msg("pruned expired sessions")
	}

	s.metrics.LoginAttempt(metrics.LoginSuccess)
	s.logger.Info().
		Int64("user_id", user.ID).
		Str("token_prefix", token[:8]).
		Time("expires_at", session.ExpiresAt).
		Msg("admin logged in")

	return &model.LoginResponse{
		Token: token,
		User:  model.AdminIdentity{ID: user.ID, Email: user.Email},
	}, nil
}

// Authorize resolves a bearer token to the admin behind it.
func (s *authService) Authorize(ctx context.Context, token string) (*model.AdminIdentity, error) {
	if token == "" {
		return nil, model.ErrUnauthorized
	}

	identity, err := s.sessions.FindIdentity(ctx, token, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up session")
		return nil, fmt.Errorf("failed to authorize: %w", err)
	}
	if identity == nil {
		return nil, model.ErrUnauthorized
	}

	return identity, nil
}

// EnsureAdmin creates the admin account unless one with that email already exists.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	created, err := s.users.CreateIfAbsent(ctx, &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if created {
		s.logger.Info().Str("email", email).Msg("admin user created")
	} else {
		s.logger.Debug().Str("email", email).Msg("admin user already exists")
	}

	return nil
}

func newSessionToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
