package esstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"

	"github.com/statuswatch/statuswatch/pkg/types"
)

// Default interaction bounds. Every store call runs under a deadline so no
// request path can block indefinitely.
const (
	DefaultPingTimeout  = 5 * time.Second
	DefaultQueryTimeout = 10 * time.Second
	DefaultIndexPrefix  = "rbcapp1"
)

// Config holds the connection settings for the Elasticsearch backend.
type Config struct {
	// Addresses is the list of Elasticsearch node URLs.
	Addresses []string

	// IndexPrefix is prepended to the service name to form the per-service
	// index: "<prefix>-<service>". Defaults to "rbcapp1".
	IndexPrefix string

	// PingTimeout bounds the reachability check. Defaults to 5s.
	PingTimeout time.Duration

	// QueryTimeout bounds reads and writes. Defaults to 10s.
	QueryTimeout time.Duration
}

// Client is the process-wide adapter to the Elasticsearch status store.
// The underlying elasticsearch.Client is built lazily on first use; if
// construction fails the next call attempts a fresh one, so a transient
// startup failure never poisons the process.
//
// Client is safe for concurrent use.
type Client struct {
	cfg Config

	mu sync.Mutex
	es *elasticsearch.Client

	// newClient is injectable for tests.
	newClient func(addresses []string) (*elasticsearch.Client, error)
}

// New creates a Client for the given configuration. No connection is opened
// until the first operation.
func New(cfg Config) *Client {
	if cfg.IndexPrefix == "" {
		cfg.IndexPrefix = DefaultIndexPrefix
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = DefaultPingTimeout
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = DefaultQueryTimeout
	}
	return &Client{
		cfg: cfg,
		newClient: func(addresses []string) (*elasticsearch.Client, error) {
			return elasticsearch.NewClient(elasticsearch.Config{Addresses: addresses})
		},
	}
}

// document is the persisted record shape. Timestamp and AtTimestamp carry
// the same instant; both are written because store-side ordering queries key
// on @timestamp while downstream consumers read timestamp.
type document struct {
	ServiceName   string `json:"service_name"`
	ServiceStatus string `json:"service_status"`
	HostName      string `json:"host_name"`
	Timestamp     string `json:"timestamp"`
	AtTimestamp   string `json:"@timestamp"`
}

// handle returns the shared elasticsearch.Client, constructing it on first
// use. A construction failure leaves the handle unset so the next caller
// retries.
func (c *Client) handle() (*elasticsearch.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.es != nil {
		return c.es, nil
	}
	es, err := c.newClient(c.cfg.Addresses)
	if err != nil {
		return nil, fmt.Errorf("esstore: build client: %w", err)
	}
	c.es = es
	return es, nil
}

// Ping reports whether the backend is reachable. It never returns an error;
// any failure, including client construction, reads as unreachable.
func (c *Client) Ping(ctx context.Context) bool {
	es, err := c.handle()
	if err != nil {
		slog.Error("esstore: ping: no client", "err", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.PingTimeout)
	defer cancel()

	res, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		slog.Warn("esstore: ping failed", "err", err)
		return false
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body) //nolint:errcheck

	return !res.IsError()
}

// Insert appends obs to its service's index and returns the store-assigned
// document ID. The caller is responsible for validation; Insert writes
// whatever it is given.
func (c *Client) Insert(ctx context.Context, obs types.Observation) (string, error) {
	es, err := c.handle()
	if err != nil {
		return "", err
	}

	ts := types.FormatTime(obs.ObservedAt)
	body, err := json.Marshal(document{
		ServiceName:   obs.ServiceName,
		ServiceStatus: string(obs.Status),
		HostName:      obs.HostName,
		Timestamp:     ts,
		AtTimestamp:   ts,
	})
	if err != nil {
		return "", fmt.Errorf("esstore: encode document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
	defer cancel()

	res, err := es.Index(c.indexName(obs.ServiceName), bytes.NewReader(body), es.Index.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("esstore: index %s: %w", obs.ServiceName, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", fmt.Errorf("esstore: index %s: status %s", obs.ServiceName, res.Status())
	}

	var idx struct {
		ID string `json:"_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&idx); err != nil {
		return "", fmt.Errorf("esstore: decode index response: %w", err)
	}
	return idx.ID, nil
}

// Latest returns the most recent observation for service, ordered by
// @timestamp descending. A missing index or an empty result returns
// types.ErrNoData; any other failure is a query error.
func (c *Client) Latest(ctx context.Context, service string) (*types.Observation, error) {
	es, err := c.handle()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
	defer cancel()

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(c.indexName(service)),
		es.Search.WithSize(1),
		es.Search.WithSort("@timestamp:desc"),
	)
	if err != nil {
		return nil, fmt.Errorf("esstore: search %s: %w", service, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		// The index is created on first write, so 404 means no observation
		// has ever been recorded — not a failure.
		if res.StatusCode == 404 {
			io.Copy(io.Discard, res.Body) //nolint:errcheck
			return nil, types.ErrNoData
		}
		return nil, fmt.Errorf("esstore: search %s: status %s", service, res.Status())
	}

	var sr struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("esstore: decode search response: %w", err)
	}

	if sr.Hits.Total.Value == 0 || len(sr.Hits.Hits) == 0 {
		return nil, types.ErrNoData
	}

	doc := sr.Hits.Hits[0].Source
	observedAt, err := types.ParseTime(doc.AtTimestamp)
	if err != nil {
		return nil, fmt.Errorf("esstore: document for %s has bad @timestamp %q: %w", service, doc.AtTimestamp, err)
	}

	return &types.Observation{
		ServiceName: doc.ServiceName,
		Status:      types.Status(doc.ServiceStatus),
		HostName:    doc.HostName,
		ObservedAt:  observedAt,
	}, nil
}

func (c *Client) indexName(service string) string {
	return c.cfg.IndexPrefix + "-" + service
}
