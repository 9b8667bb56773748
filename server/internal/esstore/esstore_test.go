package esstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"

	"github.com/statuswatch/statuswatch/pkg/types"
)

// fakeES emulates the subset of the Elasticsearch REST API the adapter
// touches. The product header is required or the client rejects responses.
func fakeES(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := New(Config{Addresses: []string{srv.URL}, IndexPrefix: "rbcapp1"})
	return srv, c
}

func TestPing_Reachable(t *testing.T) {
	_, c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead && r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	if !c.Ping(context.Background()) {
		t.Error("Ping() = false, want true")
	}
}

func TestPing_Unreachable(t *testing.T) {
	srv, c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv.Close()

	if c.Ping(context.Background()) {
		t.Error("Ping() = true against a closed server, want false")
	}
}

func TestInsert_WritesDocumentAndReturnsID(t *testing.T) {
	var gotPath string
	var gotDoc map[string]any

	_, c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotDoc); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"_id":"doc-42","result":"created"}`)
	})

	observedAt := time.Date(2024, 3, 15, 8, 30, 45, 123456000, time.UTC)
	id, err := c.Insert(context.Background(), types.Observation{
		ServiceName: "httpd",
		Status:      types.StatusUp,
		HostName:    "h1",
		ObservedAt:  observedAt,
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if id != "doc-42" {
		t.Errorf("id = %q, want doc-42", id)
	}
	if gotPath != "/rbcapp1-httpd/_doc" {
		t.Errorf("path = %q, want /rbcapp1-httpd/_doc", gotPath)
	}

	// Both timestamp fields must carry the same instant with a trailing Z.
	want := "2024-03-15T08:30:45.123456Z"
	if gotDoc["timestamp"] != want || gotDoc["@timestamp"] != want {
		t.Errorf("timestamps = %v / %v, want both %q", gotDoc["timestamp"], gotDoc["@timestamp"], want)
	}
	if gotDoc["service_status"] != "UP" || gotDoc["host_name"] != "h1" {
		t.Errorf("document = %v", gotDoc)
	}
}

func TestInsert_ServerError(t *testing.T) {
	_, c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"boom"}`)
	})

	if _, err := c.Insert(context.Background(), types.Observation{ServiceName: "httpd"}); err == nil {
		t.Fatal("Insert() error = nil, want error on 500")
	}
}

func TestLatest_ReturnsNewestObservation(t *testing.T) {
	_, c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/rabbitmq") && !strings.Contains(r.URL.Path, "_search") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("sort"); got != "@timestamp:desc" {
			t.Errorf("sort = %q, want @timestamp:desc", got)
		}
		if got := r.URL.Query().Get("size"); got != "1" {
			t.Errorf("size = %q, want 1", got)
		}
		fmt.Fprint(w, `{"hits":{"total":{"value":3},"hits":[{"_source":{
			"service_name":"rabbitmq","service_status":"DOWN","host_name":"h2",
			"timestamp":"2024-03-15T08:30:45.123456Z","@timestamp":"2024-03-15T08:30:45.123456Z"}}]}}`)
	})

	obs, err := c.Latest(context.Background(), "rabbitmq")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if obs.Status != types.StatusDown {
		t.Errorf("status = %q, want DOWN", obs.Status)
	}
	if obs.HostName != "h2" {
		t.Errorf("host = %q, want h2", obs.HostName)
	}
	want := time.Date(2024, 3, 15, 8, 30, 45, 123456000, time.UTC)
	if !obs.ObservedAt.Equal(want) {
		t.Errorf("observed_at = %v, want %v", obs.ObservedAt, want)
	}
}

func TestLatest_EmptyIndexIsNoData(t *testing.T) {
	_, c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"hits":{"total":{"value":0},"hits":[]}}`)
	})

	_, err := c.Latest(context.Background(), "httpd")
	if !errors.Is(err, types.ErrNoData) {
		t.Errorf("Latest() error = %v, want ErrNoData", err)
	}
}

func TestLatest_MissingIndexIsNoData(t *testing.T) {
	_, c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"type":"index_not_found_exception"}}`)
	})

	_, err := c.Latest(context.Background(), "postgresql")
	if !errors.Is(err, types.ErrNoData) {
		t.Errorf("Latest() error = %v, want ErrNoData", err)
	}
}

func TestLatest_ServerErrorIsNotNoData(t *testing.T) {
	_, c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"shard failure"}`)
	})

	_, err := c.Latest(context.Background(), "httpd")
	if err == nil {
		t.Fatal("Latest() error = nil, want error")
	}
	if errors.Is(err, types.ErrNoData) {
		t.Errorf("Latest() error = %v; a failed query must not read as NO_DATA", err)
	}
}

func TestLatest_BadTimestampIsQueryError(t *testing.T) {
	_, c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"hits":{"total":{"value":1},"hits":[{"_source":{
			"service_name":"httpd","service_status":"UP","host_name":"h1",
			"timestamp":"not-a-time","@timestamp":"not-a-time"}}]}}`)
	})

	_, err := c.Latest(context.Background(), "httpd")
	if err == nil || errors.Is(err, types.ErrNoData) {
		t.Errorf("Latest() error = %v, want a non-NoData query error", err)
	}
}

func TestHandle_RetriesAfterConstructionFailure(t *testing.T) {
	c := New(Config{Addresses: []string{"http://127.0.0.1:0"}})

	calls := 0
	c.newClient = func(addresses []string) (*elasticsearch.Client, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("construction failed")
		}
		return elasticsearch.NewClient(elasticsearch.Config{Addresses: addresses})
	}

	if _, err := c.handle(); err == nil {
		t.Fatal("first handle() = nil error, want construction failure")
	}
	if _, err := c.handle(); err != nil {
		t.Fatalf("second handle() error = %v, want retry to succeed", err)
	}
	if calls != 2 {
		t.Errorf("newClient calls = %d, want 2", calls)
	}
}
