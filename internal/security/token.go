package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
)

// SessionClaims is the decoded content of a bearer credential.
type SessionClaims struct {
	AccountID int64
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and verifies HMAC-signed, expiring bearer credentials
// that identify an account.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of the codec that reads time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	clone := *c
	clone.now = now
	return &clone
}

func (c *TokenCodec) Encode(accountID int64, issuedAt time.Time) (string, error) {
	if accountID <= 0 {
		return "", fmt.Errorf("encode token: invalid account id %d", accountID)
	}
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(accountID, 10),
		ID:        ksuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry of token. Every failure is
// reported as apperr.ErrInvalidToken.
func (c *TokenCodec) Decode(token string) (SessionClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", apperr.ErrInvalidToken, err)
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || accountID <= 0 {
		return SessionClaims{}, fmt.Errorf("%w: subject %q", apperr.ErrInvalidToken, claims.Subject)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return SessionClaims{}, errors.Join(apperr.ErrInvalidToken, errors.New("missing time claims"))
	}

	return SessionClaims{
		AccountID: accountID,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
