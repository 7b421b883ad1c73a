package matcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dnamatch/internal/domain"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/request"
	"github.com/kailas-cloud/dnamatch/internal/metrics"
)

const tigerResponse = `{
  "results": [
    {
      "header_info": {
        "primary_id": "MT001", "kingdom": "Animalia", "phylum": "Chordata",
        "class_": "Mammalia", "order": "Carnivora", "family": "Felidae",
        "genus": "Panthera", "species": "Panthera tigris", "other_info": ""
      },
      "sequence": "ATGCATGCAA",
      "similarity_score": 0.95
    },
    {
      "header_info": {
        "primary_id": "MT002", "kingdom": "Animalia", "phylum": null,
        "class_": null, "order": null, "family": "Felidae",
        "genus": "Panthera", "species": "Panthera leo", "other_info": null
      },
      "sequence": "ATGCTTGCAA",
      "similarity_score": 0.41
    }
  ],
  "execution_time": 1.2
}`

func mustRequest(t *testing.T, seq string, k int) request.Request {
	t.Helper()
	r, err := request.New(seq, k)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return r
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/kmer_search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["query_sequence"] != "ATGCATGC" {
			t.Errorf("query_sequence = %v", body["query_sequence"])
		}
		if body["k"] != float64(3) {
			t.Errorf("k = %v, want 3", body["k"])
		}
		if len(body) != 2 {
			t.Errorf("unexpected body fields: %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tigerResponse))
	}))
	defer server.Close()

	c := NewClient(&Config{Endpoint: server.URL + "/kmer_search", Logger: zap.NewNop()})

	before := testutil.ToFloat64(metrics.MatcherRequestsTotal.WithLabelValues("success"))
	resp, err := c.Search(context.Background(), mustRequest(t, "ATGCATGC", 3))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if resp.Len() != 2 {
		t.Fatalf("expected 2 results, got %d", resp.Len())
	}
	if resp.ExecutionTime() != 1.2 {
		t.Errorf("ExecutionTime() = %f", resp.ExecutionTime())
	}

	first := resp.Results()[0]
	h := first.Header()
	if h.Species != "Panthera tigris" || h.Class != "Mammalia" || h.PrimaryID != "MT001" {
		t.Errorf("header = %+v", h)
	}
	if first.SimilarityScore() != 0.95 {
		t.Errorf("SimilarityScore() = %f", first.SimilarityScore())
	}

	second := resp.Results()[1]
	if second.Header().Species != "Panthera leo" {
		t.Errorf("order not preserved: second species = %q", second.Header().Species)
	}
	if second.Header().Phylum != "" || second.Header().OtherInfo != "" {
		t.Errorf("null fields should decode empty, got %+v", second.Header())
	}

	after := testutil.ToFloat64(metrics.MatcherRequestsTotal.WithLabelValues("success"))
	if after-before != 1 {
		t.Errorf("matcher_requests_total{success} delta = %f, want 1", after-before)
	}
}

func TestClient_Search_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [], "execution_time": 0.0}`))
	}))
	defer server.Close()

	c := NewClient(&Config{Endpoint: server.URL})
	resp, err := c.Search(context.Background(), mustRequest(t, "A", 1))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.Len() != 0 || resp.ExecutionTime() != 0 {
		t.Errorf("got %d results, %f s", resp.Len(), resp.ExecutionTime())
	}
}

func TestClient_Search_MissingExecutionTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	c := NewClient(&Config{Endpoint: server.URL})
	resp, err := c.Search(context.Background(), mustRequest(t, "A", 1))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.ExecutionTime() != 0 {
		t.Errorf("ExecutionTime() = %f, want 0", resp.ExecutionTime())
	}
}

func TestClient_Search_ServiceError(t *testing.T) {
	tests := []int{
		http.StatusBadRequest,
		http.StatusNotFound,
		http.StatusInternalServerError,
		http.StatusBadGateway,
	}

	for _, status := range tests {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"results": [], "detail": "ignored"}`))
			}))
			defer server.Close()

			c := NewClient(&Config{Endpoint: server.URL})
			_, err := c.Search(context.Background(), mustRequest(t, "ATGC", 2))
			if !errors.Is(err, domain.ErrService) {
				t.Fatalf("error = %v, want ErrService", err)
			}

			var me *Error
			if !errors.As(err, &me) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if me.StatusCode != status {
				t.Errorf("StatusCode = %d, want %d", me.StatusCode, status)
			}
			if !strings.Contains(err.Error(), "Failed to fetch results") {
				t.Errorf("error text = %q", err.Error())
			}
		})
	}
}

func TestClient_Search_DecodeError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"truncated", `{"results": [`},
		{"missing results", `{"execution_time": 1}`},
		{"null results", `{"results": null}`},
		{"wrong score type", `{"results": [{"similarity_score": "high"}]}`},
		{"array body", `[]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			c := NewClient(&Config{Endpoint: server.URL})
			_, err := c.Search(context.Background(), mustRequest(t, "ATGC", 2))
			if !errors.Is(err, domain.ErrDecode) {
				t.Fatalf("error = %v, want ErrDecode", err)
			}
			if KindOf(err) != KindDecode {
				t.Errorf("KindOf() = %q", KindOf(err))
			}
		})
	}
}

func TestClient_Search_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close() // connection refused from here on

	c := NewClient(&Config{Endpoint: endpoint})
	_, err := c.Search(context.Background(), mustRequest(t, "ATGC", 2))
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if errors.Is(err, domain.ErrService) || errors.Is(err, domain.ErrDecode) {
		t.Errorf("transport error matched another class: %v", err)
	}
}

func TestClient_Search_CallerDeadline(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(&Config{Endpoint: server.URL})
	_, err := c.Search(ctx, mustRequest(t, "ATGC", 2))
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cause context.Canceled, got %v", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(&Config{})
	if c.Endpoint() != DefaultEndpoint {
		t.Errorf("Endpoint() = %q", c.Endpoint())
	}
	if c.http.Timeout != 0 {
		t.Errorf("default HTTP timeout = %s, want none", c.http.Timeout)
	}
}

func TestClient_Probe(t *testing.T) {
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	c := NewClient(&Config{Endpoint: server.URL})
	if err := c.Probe(context.Background()); err != nil {
		t.Fatalf("Probe() = %v, want nil for any HTTP answer", err)
	}
	if method != http.MethodGet {
		t.Errorf("probe method = %s, want GET", method)
	}
}

func TestClient_Probe_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	c := NewClient(&Config{Endpoint: endpoint})
	err := c.Probe(context.Background())
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("Probe() = %v, want ErrTransport", err)
	}
}
