package transport

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gympanel/authpipe/internal/audit"
	"github.com/gympanel/authpipe/internal/metrics"
	"github.com/gympanel/authpipe/jwt"
	"github.com/gympanel/authpipe/session"
)

// unauthorizedStage reacts to 401 responses. The token's expiry is checked
// once at request dispatch time and never re-evaluated mid-flight: a 401
// for a token that was still valid at dispatch means the server revoked it,
// and the stage issues the full logout command; a 401 for a token already
// known expired only clears persisted local state. Both paths force
// navigation to the login route and re-raise the original response.
//
// Handling is deduplicated per session epoch so duplicate 401s from
// parallel in-flight requests trigger the side effects once.
type unauthorizedStage struct {
	next       http.RoundTripper
	store      *session.Store
	guard      *jwt.Guard
	navigator  Navigator
	metrics    *metrics.Metrics
	audit      *audit.Dispatcher
	loginRoute string

	handled atomic.Uint64
}

func (s *unauthorizedStage) RoundTrip(req *http.Request) (*http.Response, error) {
	token, _ := s.store.AccessToken()
	expiredAtDispatch := s.guard.IsExpired(token)
	// Epoch of this dispatch; generation advances on login/logout/clear.
	epoch := s.store.Generation() + 1

	resp, err := s.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		s.handle(req.Context(), expiredAtDispatch, epoch)
	}
	return resp, nil
}

func (s *unauthorizedStage) handle(ctx context.Context, expiredAtDispatch bool, epoch uint64) {
	for {
		prev := s.handled.Load()
		if prev >= epoch {
			return
		}
		if s.handled.CompareAndSwap(prev, epoch) {
			break
		}
	}

	reason := "logout"
	if expiredAtDispatch {
		reason = "local_clear"
		s.metrics.Inc(metrics.MetricUnauthorizedLocalClear)
		_ = s.store.ClearLocal(ctx)
	} else {
		s.metrics.Inc(metrics.MetricUnauthorizedFullLogout)
		_ = s.store.Logout(ctx)
	}

	s.audit.Emit(ctx, audit.Event{
		EventType: audit.EventUnauthorized,
		Reason:    reason,
	})

	if s.navigator != nil {
		s.navigator.NavigateTo(s.loginRoute)
	}
}
