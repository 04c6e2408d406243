package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenMalformed is returned when a token cannot be decoded.
var ErrTokenMalformed = errors.New("malformed token")

// ErrNoSubject is returned when a decodable token carries no subject claim.
var ErrNoSubject = errors.New("token has no subject")

// ErrNoExpiry is returned by ExpiresAt when a decodable token carries no
// expiry claim.
var ErrNoExpiry = errors.New("token has no expiry")

// Config defines the guard's decoding behavior.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Config struct {
	// Leeway widens the expiry window to absorb clock skew. At most two
	// minutes.
	Leeway time.Duration
}

type accessClaims struct {
	UID string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// Guard decodes a token's embedded claims without verifying its signature
// and without any network I/O.
type Guard struct {
	config Config
	parser *jwt.Parser
	now    func() time.Time
}

// NewGuard creates a Guard.
func NewGuard(cfg Config) (*Guard, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Guard{
		config: cfg,
		parser: jwt.NewParser(),
		now:    time.Now,
	}, nil
}

// IsExpired reports whether the token's expiry claim has passed. It returns
// true when the token cannot be decoded or carries no expiry claim.
func (g *Guard) IsExpired(token string) bool {
	claims, err := g.decode(token)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return g.now().After(claims.ExpiresAt.Time.Add(g.config.Leeway))
}

// UserID extracts the subject identifier from the token. It prefers the
// registered "sub" claim and falls back to the "uid" claim. Malformed
// tokens fail with [ErrTokenMalformed].
func (g *Guard) UserID(token string) (string, error) {
	claims, err := g.decode(token)
	if err != nil {
		return "", err
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	if claims.UID != "" {
		return claims.UID, nil
	}
	return "", ErrNoSubject
}

// ExpiresAt returns the token's expiry instant.
func (g *Guard) ExpiresAt(token string) (time.Time, error) {
	claims, err := g.decode(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

func (g *Guard) decode(token string) (*accessClaims, error) {
	if token == "" {
		return nil, ErrTokenMalformed
	}
	claims := &accessClaims{}
	if _, _, err := g.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	return claims, nil
}
