package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// net/http keeps idle connections in a background goroutine.
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

const minimalResponse = `{
	"service": {"slug": "svc", "name": "Сервіс"},
	"screen_flows": [{"flow_slug": "f1", "name": "Флоу", "screens": ["s1"]}],
	"screens": [{"screen_id": "s1", "title": "Екран"}],
	"global_mermaid": "flowchart TD\n  A0[\"Початок\"]"
}`

func TestSubmit_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/search" {
			t.Errorf("Expected /api/v1/search, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json, got %q", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("Expected a request id header")
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("Expected no auth header without credentials")
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["query"] != "оформлення субсидії" {
			t.Errorf("Unexpected query payload: %q", body["query"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(minimalResponse))
	}))
	defer server.Close()

	client := NewClient(Config{Host: server.URL})
	result, err := client.Submit(context.Background(), "оформлення субсидії")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Service.Name != "Сервіс" {
		t.Errorf("Expected decoded service, got %q", result.Service.Name)
	}
	if len(result.ScreenFlows) != 1 || len(result.Screens) != 1 {
		t.Errorf("Expected 1 flow and 1 screen, got %d/%d", len(result.ScreenFlows), len(result.Screens))
	}
}

func TestSubmit_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "designer" || pass != "secret" {
			t.Errorf("Expected basic auth designer:secret, got %q %q ok=%v", user, pass, ok)
		}
		w.Write([]byte(minimalResponse))
	}))
	defer server.Close()

	client := NewClient(Config{Host: server.URL, Username: "designer", Password: "secret"})
	if _, err := client.Submit(context.Background(), "запит"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
}

// A half-configured credential pair sends no header at all.
func TestSubmit_PartialCredentialsSendNoAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("Expected no auth header with only a username")
		}
		w.Write([]byte(minimalResponse))
	}))
	defer server.Close()

	client := NewClient(Config{Host: server.URL, Username: "designer"})
	if _, err := client.Submit(context.Background(), "запит"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
}

// A blank query is rejected before any network I/O happens.
func TestSubmit_EmptyQueryNeverHitsNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(minimalResponse))
	}))
	defer server.Close()

	client := NewClient(Config{Host: server.URL})
	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := client.Submit(context.Background(), q); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Submit(%q): expected ErrEmptyQuery, got %v", q, err)
		}
	}
	if calls != 0 {
		t.Errorf("Expected no requests, server saw %d", calls)
	}
}

func TestSubmit_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error": "pipeline unavailable"}`))
	}))
	defer server.Close()

	client := NewClient(Config{Host: server.URL})
	_, err := client.Submit(context.Background(), "запит")

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if serr.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", serr.Code)
	}
	if serr.Message != "pipeline unavailable" {
		t.Errorf("Expected the error envelope message, got %q", serr.Message)
	}
}

// Non-JSON error bodies are tolerated; the status alone is reported.
func TestSubmit_StatusErrorWithoutEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>Internal Server Error</html>"))
	}))
	defer server.Close()

	client := NewClient(Config{Host: server.URL})
	_, err := client.Submit(context.Background(), "запит")

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if serr.Message != "" {
		t.Errorf("Expected no message, got %q", serr.Message)
	}
}

func TestSubmit_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"screens": [`))
	}))
	defer server.Close()

	client := NewClient(Config{Host: server.URL})
	if _, err := client.Submit(context.Background(), "запит"); err == nil {
		t.Error("Expected a decode error")
	}
}

func TestSubmit_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Config{Host: server.URL})
	if _, err := client.Submit(ctx, "запит"); err == nil {
		t.Error("Expected an error from a cancelled context")
	}
}
