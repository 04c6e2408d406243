package session

import "errors"

// ErrEmptyToken is returned by Login when no access token is supplied.
var ErrEmptyToken = errors.New("empty access token")

// ErrRedisUnavailable is returned when the persistence backend cannot be
// reached.
var ErrRedisUnavailable = errors.New("redis unavailable")
