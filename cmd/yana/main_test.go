package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// The one-shot command joins its bare arguments into a single query
// string before submitting.
func TestQueryCommandJoinsArgs(t *testing.T) {
	t.Chdir(t.TempDir())

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotQuery = body["query"]
		w.Write([]byte(`{
			"service": {"slug": "svc", "name": "Сервіс"},
			"screen_flows": [{"flow_slug": "f1", "name": "Флоу", "screens": ["s1"]}],
			"screens": [{"screen_id": "s1", "title": "Екран"}],
			"global_mermaid": "flowchart TD\n  A0[\"Початок\"]"
		}`))
	}))
	defer server.Close()

	rootCmd.SetArgs([]string{"query", "--host", server.URL, "оформлення", "субсидії", "онлайн"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if gotQuery != "оформлення субсидії онлайн" {
		t.Errorf("Expected the space-joined query, got %q", gotQuery)
	}
}
