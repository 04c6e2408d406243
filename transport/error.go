package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gympanel/authpipe/internal/audit"
	"github.com/gympanel/authpipe/internal/metrics"
)

// User-facing message texts.
const (
	TitleConnectionError = "Connection error"
	TitleRequestFailed   = "Error"

	MessageCheckConnection    = "Please check your internet connection and try again."
	MessageServiceUnavailable = "Service is temporarily unavailable. Please try again later."
)

// maxErrorBody caps how much of an error body is inspected for a message.
const maxErrorBody = 8 << 10

// errorStage surfaces a user-facing message for every failed request and
// re-raises the failure unchanged. Network-level failures map to the
// connection message, 503 to the fixed unavailable message, other failures
// to the most specific message the server provided, falling back to the
// transport's status text. The session is never touched here.
type errorStage struct {
	next     http.RoundTripper
	notifier Notifier
	metrics  *metrics.Metrics
	audit    *audit.Dispatcher
}

func (s *errorStage) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := s.next.RoundTrip(req)
	if err != nil {
		s.metrics.Inc(metrics.MetricConnectionFailure)
		s.notify(req, TitleConnectionError, MessageCheckConnection)
		return resp, err
	}

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusServiceUnavailable {
			s.metrics.Inc(metrics.MetricServiceUnavailable)
		}
		s.notify(req, TitleRequestFailed, s.messageFor(resp))
	}
	return resp, nil
}

func (s *errorStage) notify(req *http.Request, title, message string) {
	s.metrics.Inc(metrics.MetricErrorNotified)
	s.audit.Emit(req.Context(), audit.Event{
		EventType: audit.EventErrorNotified,
		Route:     req.URL.Path,
		Reason:    message,
	})
	if s.notifier != nil {
		s.notifier.ShowError(title, message)
	}
}

// messageFor picks the most specific message available for resp. The body
// is restored so the caller still observes the full response.
func (s *errorStage) messageFor(resp *http.Response) string {
	if resp.StatusCode == http.StatusServiceUnavailable {
		return MessageServiceUnavailable
	}

	if msg := serverMessage(resp); msg != "" {
		return msg
	}

	if resp.Status != "" {
		return resp.Status
	}
	return http.StatusText(resp.StatusCode)
}

// serverMessage extracts a message from a JSON error body, preferring
// "message", then "error", then the first element of "errors".
func serverMessage(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}

	buf, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(buf), resp.Body), resp.Body}
	if err != nil || len(buf) == 0 {
		return ""
	}

	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
		Errors  []string        `json:"errors"`
	}
	if err := json.Unmarshal(buf, &body); err != nil {
		return ""
	}

	if body.Message != "" {
		return body.Message
	}
	if len(body.Error) > 0 {
		var str string
		if err := json.Unmarshal(body.Error, &str); err == nil && str != "" {
			return str
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	if len(body.Errors) > 0 && body.Errors[0] != "" {
		return body.Errors[0]
	}
	return ""
}
