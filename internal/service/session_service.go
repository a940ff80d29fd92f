package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/config"
	"github.com/Nahomatnafu/dj-event-management/internal/models"
	"github.com/Nahomatnafu/dj-event-management/internal/security"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	ErrAccountInactive    = fmt.Errorf("account inactive: %w", apperr.ErrForbidden)
)

// SessionService logs accounts in and resolves bearer credentials back to
// active accounts.
type SessionService struct {
	accounts    AccountStore
	codec       *security.TokenCodec
	revocations TokenRevoker
	throttle    LoginLimiter
	maxAttempts int
	now         func() time.Time
	log         zerolog.Logger
}

func NewSessionService(accounts AccountStore, codec *security.TokenCodec, cfg config.SecurityConfig, log zerolog.Logger) *SessionService {
	return &SessionService{
		accounts:    accounts,
		codec:       codec,
		maxAttempts: cfg.LoginMaxAttempts,
		now:         time.Now,
		log:         log,
	}
}

// WithRevocations enables server-side logout.
func (s *SessionService) WithRevocations(r TokenRevoker) *SessionService {
	s.revocations = r
	return s
}

// WithLoginThrottle enables per-email throttling of failed logins.
func (s *SessionService) WithLoginThrottle(l LoginLimiter) *SessionService {
	s.throttle = l
	return s
}

func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token   string
	Account models.Account
}

// Session is a resolved bearer credential.
type Session struct {
	Account models.Account
	Claims  security.SessionClaims
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *SessionService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	if s.throttled(ctx, email) {
		return LoginResult{}, apperr.ErrTooManyAttempts
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.recordFailure(ctx, email)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, apperr.Storage("find account by email", err)
	}

	ok, err := security.VerifyPassword(input.Password, account.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Int64("account_id", account.ID).Msg("stored password hash unreadable")
	}
	if !ok {
		s.recordFailure(ctx, email)
		return LoginResult{}, ErrInvalidCredentials
	}

	if !account.IsActive() {
		return LoginResult{}, ErrAccountInactive
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("reset login failures failed")
		}
	}

	token, err := s.codec.Encode(account.ID, s.now())
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Info().Int64("account_id", account.ID).Str("role", string(account.Role)).Msg("login succeeded")
	return LoginResult{Token: token, Account: account}, nil
}

// Resolve maps a bearer credential to its active account. A credential that
// does not decode, was revoked, or names a missing or inactive account yields
// apperr.ErrUnauthorized.
func (s *SessionService) Resolve(ctx context.Context, token string) (Session, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", apperr.ErrUnauthorized, err)
	}

	if s.revocations != nil && claims.TokenID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return Session{}, apperr.Storage("check token revocation", err)
		}
		if revoked {
			return Session{}, fmt.Errorf("%w: token revoked", apperr.ErrUnauthorized)
		}
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Session{}, fmt.Errorf("%w: account %d not found", apperr.ErrUnauthorized, claims.AccountID)
		}
		return Session{}, apperr.Storage("get account", err)
	}
	if !account.IsActive() {
		return Session{}, fmt.Errorf("%w: account %d inactive", apperr.ErrUnauthorized, account.ID)
	}

	return Session{Account: account, Claims: claims}, nil
}

// Logout revokes the session's credential until it would have expired.
// Without a revocation store logout is left to the client.
func (s *SessionService) Logout(ctx context.Context, session Session) error {
	if s.revocations == nil || session.Claims.TokenID == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, session.Claims.TokenID, session.Claims.ExpiresAt); err != nil {
		return apperr.Storage("revoke token", err)
	}
	return nil
}

func (s *SessionService) throttled(ctx context.Context, email string) bool {
	if s.throttle == nil || s.maxAttempts <= 0 {
		return false
	}
	n, err := s.throttle.Failures(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("read login failures failed")
		return false
	}
	return n >= s.maxAttempts
}

func (s *SessionService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if _, err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("record login failure failed")
	}
}
