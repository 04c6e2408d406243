package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/gympanel/authpipe/internal/metrics"
	"github.com/gympanel/authpipe/jwt"
	"github.com/gympanel/authpipe/session"
)

type stubTransport struct {
	fn func(req *http.Request) (*http.Response, error)
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return s.fn(req)
}

type recordingNotifier struct {
	mu       sync.Mutex
	titles   []string
	messages []string
}

func (n *recordingNotifier) ShowError(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) last() (string, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return "", ""
	}
	return n.titles[len(n.titles)-1], n.messages[len(n.messages)-1]
}

type recordingNavigator struct {
	count atomic.Int64
	last  atomic.Value
}

func (n *recordingNavigator) NavigateTo(path string) {
	n.count.Add(1)
	n.last.Store(path)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func newRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	u, err := url.Parse("https://api.example.com" + path)
	if err != nil {
		t.Fatalf("parse url failed: %v", err)
	}
	return &http.Request{Method: http.MethodGet, URL: u, Header: make(http.Header)}
}

func mintToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(ttl)),
	}).SignedString([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return token
}

type fixture struct {
	store     *session.Store
	notifier  *recordingNotifier
	navigator *recordingNavigator
	metrics   *metrics.Metrics
	rt        http.RoundTripper
}

func newFixture(t *testing.T, base http.RoundTripper) *fixture {
	t.Helper()

	store := session.NewStore()
	guard, err := jwt.NewGuard(jwt.Config{})
	if err != nil {
		t.Fatalf("new guard failed: %v", err)
	}

	f := &fixture{
		store:     store,
		notifier:  &recordingNotifier{},
		navigator: &recordingNavigator{},
		metrics:   metrics.New(metrics.Config{Enabled: true}),
	}
	f.rt, err = Chain(base, Options{
		Store:      store,
		TokenGuard: guard,
		Navigator:  f.navigator,
		Notifier:   f.notifier,
		Metrics:    f.metrics,
	})
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	return f
}

func TestTenantHeaderAttached(t *testing.T) {
	var seen *http.Request
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		seen = req
		return response(http.StatusOK, ""), nil
	}}
	f := newFixture(t, base)
	_ = f.store.Login(context.Background(), mintToken(t, time.Hour), session.RoleAdmin, "acme", nil)

	if _, err := f.rt.RoundTrip(newRequest(t, "/clients")); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got := seen.Header.Get(DefaultTenantHeader); got != "acme" {
		t.Fatalf("expected x-organization acme, got %q", got)
	}
}

func TestTenantHeaderExemptEndpoints(t *testing.T) {
	// Auth and organization-management endpoints never carry the header,
	// even while authenticated with a resolved tenant.
	for _, path := range []string{"/organizations", "/organizations/acme", "/auth/login"} {
		var seen *http.Request
		base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
			seen = req
			return response(http.StatusOK, ""), nil
		}}
		f := newFixture(t, base)
		_ = f.store.Login(context.Background(), mintToken(t, time.Hour), session.RoleAdmin, "acme", nil)

		if _, err := f.rt.RoundTrip(newRequest(t, path)); err != nil {
			t.Fatalf("round trip failed: %v", err)
		}
		if got := seen.Header.Get(DefaultTenantHeader); got != "" {
			t.Fatalf("path %s: expected no tenant header, got %q", path, got)
		}
	}
}

func TestTenantHeaderSkippedWithoutSlug(t *testing.T) {
	var seen *http.Request
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		seen = req
		return response(http.StatusOK, ""), nil
	}}
	f := newFixture(t, base)
	_ = f.store.Login(context.Background(), mintToken(t, time.Hour), session.RoleAdmin, "", nil)

	if _, err := f.rt.RoundTrip(newRequest(t, "/clients")); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got := seen.Header.Get(DefaultTenantHeader); got != "" {
		t.Fatalf("expected no tenant header without a slug, got %q", got)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	var seen *http.Request
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		seen = req
		return response(http.StatusOK, ""), nil
	}}
	f := newFixture(t, base)
	token := mintToken(t, time.Hour)
	_ = f.store.Login(context.Background(), token, session.RoleAdmin, "acme", nil)

	if _, err := f.rt.RoundTrip(newRequest(t, "/clients")); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got := seen.Header.Get("Authorization"); got != "Bearer "+token {
		t.Fatalf("unexpected authorization header %q", got)
	}
}

func TestNoBearerWhenUnauthenticated(t *testing.T) {
	var seen *http.Request
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		seen = req
		return response(http.StatusOK, ""), nil
	}}
	f := newFixture(t, base)

	if _, err := f.rt.RoundTrip(newRequest(t, "/clients")); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got := seen.Header.Get("Authorization"); got != "" {
		t.Fatalf("expected no authorization header, got %q", got)
	}
}

func TestOriginalRequestNotMutated(t *testing.T) {
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		return response(http.StatusOK, ""), nil
	}}
	f := newFixture(t, base)
	_ = f.store.Login(context.Background(), mintToken(t, time.Hour), session.RoleAdmin, "acme", nil)

	req := newRequest(t, "/clients")
	if _, err := f.rt.RoundTrip(req); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if len(req.Header) != 0 {
		t.Fatalf("caller's request was mutated: %v", req.Header)
	}
}

func TestUnauthorizedFullLogoutWhenTokenWasLive(t *testing.T) {
	// Scenario: 401 arrives for a token that was NOT expired at dispatch.
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		return response(http.StatusUnauthorized, ""), nil
	}}
	f := newFixture(t, base)
	_ = f.store.Login(context.Background(), mintToken(t, time.Hour), session.RoleAdmin, "acme", nil)

	resp, err := f.rt.RoundTrip(newRequest(t, "/clients"))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	// Re-raised: the caller still observes the 401.
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 to reach the caller, got %d", resp.StatusCode)
	}

	if f.store.Authenticated() {
		t.Fatal("session must be cleared")
	}
	if got := f.metrics.Value(metrics.MetricUnauthorizedFullLogout); got != 1 {
		t.Fatalf("expected 1 full logout, got %d", got)
	}
	if got := f.metrics.Value(metrics.MetricUnauthorizedLocalClear); got != 0 {
		t.Fatalf("expected 0 local clears, got %d", got)
	}
	if f.navigator.count.Load() != 1 || f.navigator.last.Load() != "/login" {
		t.Fatalf("expected single navigation to /login, got %d to %v",
			f.navigator.count.Load(), f.navigator.last.Load())
	}
}

func TestUnauthorizedLocalClearWhenTokenAlreadyExpired(t *testing.T) {
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		return response(http.StatusUnauthorized, ""), nil
	}}
	f := newFixture(t, base)
	_ = f.store.Login(context.Background(), mintToken(t, -time.Minute), session.RoleAdmin, "acme", nil)

	if _, err := f.rt.RoundTrip(newRequest(t, "/clients")); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}

	if f.store.Authenticated() {
		t.Fatal("session must be cleared")
	}
	if got := f.metrics.Value(metrics.MetricUnauthorizedLocalClear); got != 1 {
		t.Fatalf("expected 1 local clear, got %d", got)
	}
	if got := f.metrics.Value(metrics.MetricUnauthorizedFullLogout); got != 0 {
		t.Fatalf("expected 0 full logouts, got %d", got)
	}
	if f.navigator.last.Load() != "/login" {
		t.Fatalf("expected navigation to /login, got %v", f.navigator.last.Load())
	}
}

func TestConcurrent401sHandledOnce(t *testing.T) {
	const parallel = 4

	var entered sync.WaitGroup
	entered.Add(parallel)
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		// Hold every request until all are in flight, then 401 them all.
		entered.Done()
		entered.Wait()
		return response(http.StatusUnauthorized, ""), nil
	}}
	f := newFixture(t, base)
	_ = f.store.Login(context.Background(), mintToken(t, time.Hour), session.RoleAdmin, "acme", nil)

	var wg sync.WaitGroup
	wg.Add(parallel)
	for i := 0; i < parallel; i++ {
		go func() {
			defer wg.Done()
			_, _ = f.rt.RoundTrip(newRequest(t, "/clients"))
		}()
	}
	wg.Wait()

	if got := f.navigator.count.Load(); got != 1 {
		t.Fatalf("expected exactly one navigation for duplicate 401s, got %d", got)
	}
	total := f.metrics.Value(metrics.MetricUnauthorizedFullLogout) +
		f.metrics.Value(metrics.MetricUnauthorizedLocalClear)
	if total != 1 {
		t.Fatalf("expected exactly one 401 handling, got %d", total)
	}
}

func TestServiceUnavailableMessage(t *testing.T) {
	// Scenario: 503 surfaces the fixed unavailable text; session untouched.
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		return response(http.StatusServiceUnavailable, ""), nil
	}}
	f := newFixture(t, base)
	_ = f.store.Login(context.Background(), mintToken(t, time.Hour), session.RoleAdmin, "acme", nil)

	resp, err := f.rt.RoundTrip(newRequest(t, "/clients"))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 re-raised, got %d", resp.StatusCode)
	}

	_, msg := f.notifier.last()
	if msg != MessageServiceUnavailable {
		t.Fatalf("expected %q, got %q", MessageServiceUnavailable, msg)
	}
	if !f.store.Authenticated() {
		t.Fatal("a 503 must not touch the session")
	}
}

func TestNetworkFailureMessage(t *testing.T) {
	wantErr := errors.New("dial tcp: connection refused")
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		return nil, wantErr
	}}
	f := newFixture(t, base)

	_, err := f.rt.RoundTrip(newRequest(t, "/clients"))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the transport error re-raised, got %v", err)
	}

	title, msg := f.notifier.last()
	if title != TitleConnectionError || msg != MessageCheckConnection {
		t.Fatalf("unexpected notification %q / %q", title, msg)
	}
}

func TestServerMessagePreferred(t *testing.T) {
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		return response(http.StatusBadRequest, `{"message":"client name already taken"}`), nil
	}}
	f := newFixture(t, base)

	resp, err := f.rt.RoundTrip(newRequest(t, "/clients"))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}

	_, msg := f.notifier.last()
	if msg != "client name already taken" {
		t.Fatalf("expected server message, got %q", msg)
	}

	// The body must still be fully readable by the caller.
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "client name already taken") {
		t.Fatalf("body not restored: %q", body)
	}
}

func TestStatusTextFallback(t *testing.T) {
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		return response(http.StatusNotFound, ""), nil
	}}
	f := newFixture(t, base)

	if _, err := f.rt.RoundTrip(newRequest(t, "/clients")); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}

	_, msg := f.notifier.last()
	if msg != http.StatusText(http.StatusNotFound) {
		t.Fatalf("expected status text fallback, got %q", msg)
	}
}

func TestNestedErrorBodyMessage(t *testing.T) {
	base := &stubTransport{fn: func(req *http.Request) (*http.Response, error) {
		return response(http.StatusConflict, `{"error":{"message":"schedule overlaps"}}`), nil
	}}
	f := newFixture(t, base)

	if _, err := f.rt.RoundTrip(newRequest(t, "/schedules")); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}

	_, msg := f.notifier.last()
	if msg != "schedule overlaps" {
		t.Fatalf("expected nested message, got %q", msg)
	}
}

func TestChainRequiresStoreAndGuard(t *testing.T) {
	g, _ := jwt.NewGuard(jwt.Config{})
	if _, err := Chain(nil, Options{TokenGuard: g}); err == nil {
		t.Fatal("expected missing store to be rejected")
	}
	if _, err := Chain(nil, Options{Store: session.NewStore()}); err == nil {
		t.Fatal("expected missing token guard to be rejected")
	}
}
