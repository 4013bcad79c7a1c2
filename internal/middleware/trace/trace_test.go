package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gastos/internal/log"

	"github.com/google/uuid"
)

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	m := NewMiddleware(log.New(log.Config{Output: &buf}), func(*http.Request) string { return "198.51.100.1" })

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		log.FromContext(r.Context()).InfoContext(r.Context(), "handled")
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/expenses", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("request id %q is not a UUID", seen)
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("response header = %q, want %q", rec.Header().Get(RequestIDHeader), seen)
	}
	out := buf.String()
	if strings.Count(out, "request_id="+seen) != 2 {
		t.Errorf("expected both records tagged with the request id: %q", out)
	}
	if !strings.Contains(out, "status_code=201") || !strings.Contains(out, "client_ip=198.51.100.1") {
		t.Errorf("completion record incomplete: %q", out)
	}
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	id := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, id)
	if got := RequestID(r); got != id {
		t.Errorf("RequestID() = %q, want %q", got, id)
	}

	r.Header.Set(RequestIDHeader, "<script>")
	if got := RequestID(r); got == "<script>" {
		t.Error("malformed ids must be replaced")
	}
}
