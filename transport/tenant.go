package transport

import (
	"net/http"
	"strings"

	"github.com/gympanel/authpipe/internal/metrics"
	"github.com/gympanel/authpipe/session"
)

// tenantStage attaches the active organization slug as a request header.
// Authentication and organization-management endpoints pass through
// unchanged, as do requests issued while unauthenticated or before a
// tenant has been resolved. Never blocks.
type tenantStage struct {
	next    http.RoundTripper
	store   *session.Store
	header  string
	exempt  []string
	metrics *metrics.Metrics
}

func (s *tenantStage) RoundTrip(req *http.Request) (*http.Response, error) {
	if s.exemptPath(req.URL.Path) {
		return s.next.RoundTrip(req)
	}

	if !s.store.Authenticated() {
		return s.next.RoundTrip(req)
	}
	slug, ok := s.store.TenantSlug()
	if !ok {
		return s.next.RoundTrip(req)
	}

	s.metrics.Inc(metrics.MetricTenantHeaderAttached)
	return s.next.RoundTrip(cloneWithHeader(req, s.header, slug))
}

func (s *tenantStage) exemptPath(path string) bool {
	for _, prefix := range s.exempt {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
