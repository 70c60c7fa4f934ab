package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateSendsModelAndPrompt(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"  the answer  "}`))
	}))
	defer server.Close()

	client := New(server.URL+"/", "llama3.1:8b")
	got, err := client.Generate(context.Background(), "how much in 2021?")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "the answer" {
		t.Fatalf("expected trimmed response, got %q", got)
	}
	if payload["model"] != "llama3.1:8b" || payload["prompt"] != "how much in 2021?" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if stream, ok := payload["stream"].(bool); !ok || stream {
		t.Fatalf("expected stream=false, got %v", payload["stream"])
	}
	if _, ok := payload["format"]; ok {
		t.Fatalf("plain generate must not force a format, got %v", payload["format"])
	}
}

func TestGenerateJSONExtractsObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["format"] != "json" {
			t.Fatalf("expected json format, got %v", payload["format"])
		}
		_, _ = w.Write([]byte(`{"response":"Sure! {\"type\":\"final\"} hope that helps"}`))
	}))
	defer server.Close()

	got, err := New(server.URL, "gen").GenerateJSON(context.Background(), "plan")
	if err != nil {
		t.Fatalf("GenerateJSON() error = %v", err)
	}
	if got != `{"type":"final"}` {
		t.Fatalf("expected bare object, got %q", got)
	}
}

func TestGenerateIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, "gen").Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{`{"a":1}`, `{"a":1}`},
		{`noise {"a":1} noise`, `{"a":1}`},
		{`no object at all`, `no object at all`},
		{`{"outer":{"inner":2}}`, `{"outer":{"inner":2}}`},
	}
	for _, tc := range cases {
		if got := extractJSONObject(tc.in); got != tc.out {
			t.Errorf("%q: expected %q, got %q", tc.in, tc.out, got)
		}
	}
}
