package transport

import (
	"net/http"

	"github.com/gympanel/authpipe/internal/metrics"
	"github.com/gympanel/authpipe/session"
)

// bearerStage attaches the session's access token as a bearer Authorization
// header. Never blocks and never interprets error codes; downstream errors
// pass through unchanged.
type bearerStage struct {
	next    http.RoundTripper
	store   *session.Store
	metrics *metrics.Metrics
}

func (s *bearerStage) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := s.store.AccessToken()
	if !ok {
		return s.next.RoundTrip(req)
	}

	s.metrics.Inc(metrics.MetricBearerAttached)
	return s.next.RoundTrip(cloneWithHeader(req, "Authorization", "Bearer "+token))
}
