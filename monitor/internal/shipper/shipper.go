package shipper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/statuswatch/statuswatch/pkg/types"
)

const shipTimeout = 10 * time.Second

// Sink delivers one observation to its destination. Implementations must be
// safe for sequential reuse across emit cycles.
type Sink interface {
	Ship(ctx context.Context, obs types.Observation) error
}

// payload is the JSON body accepted by the ingestion API's /add endpoint,
// and also the document shape written by the file sink.
type payload struct {
	ServiceName   string `json:"service_name"`
	ServiceStatus string `json:"service_status"`
	HostName      string `json:"host_name"`
	Timestamp     string `json:"timestamp"`
}

func toPayload(obs types.Observation) payload {
	return payload{
		ServiceName:   obs.ServiceName,
		ServiceStatus: string(obs.Status),
		HostName:      obs.HostName,
		Timestamp:     types.FormatTime(obs.ObservedAt),
	}
}

// APISink POSTs observations to the ingestion API.
type APISink struct {
	endpoint string // base URL, e.g. http://localhost:8080
	header   string // auth header name; empty disables auth
	key      string
	client   *http.Client
}

// NewAPI creates an APISink targeting the API at endpoint. When key is
// non-empty it is sent in header on every request.
func NewAPI(endpoint, header, key string) *APISink {
	return &APISink{
		endpoint: strings.TrimRight(endpoint, "/"),
		header:   header,
		key:      key,
		client:   &http.Client{Timeout: shipTimeout},
	}
}

// Ship POSTs obs to /add. Any response other than 201 Created is an error.
func (s *APISink) Ship(ctx context.Context, obs types.Observation) error {
	body, err := json.Marshal(toPayload(obs))
	if err != nil {
		return fmt.Errorf("shipper: marshal observation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/add", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shipper: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.key != "" {
		req.Header.Set(s.header, s.key)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("shipper: post %s: %w", obs.ServiceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("shipper: post %s: status %d: %s", obs.ServiceName, resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
