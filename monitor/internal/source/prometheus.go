package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/statuswatch/statuswatch/pkg/types"
)

const fetchTimeout = 10 * time.Second

// promChecker reports UP when the service's Prometheus metrics endpoint
// serves a parseable text exposition. If the exposition carries an `up`
// gauge, its value is honored: 0 means DOWN even though the endpoint itself
// responded.
type promChecker struct {
	endpoint string
	client   *http.Client
}

func newPrometheus(endpoint string) *promChecker {
	return &promChecker{
		endpoint: endpoint,
		client:   &http.Client{Timeout: fetchTimeout},
	}
}

func (c *promChecker) Check(ctx context.Context) types.Status {
	mfs, err := c.fetch(ctx)
	if err != nil {
		slog.Warn("source: prometheus fetch failed", "endpoint", c.endpoint, "err", err)
		return types.StatusDown
	}

	if up, ok := mfs["up"]; ok && gaugeValue(up) == 0 {
		return types.StatusDown
	}
	return types.StatusUp
}

// fetch performs an HTTP GET to the endpoint and returns parsed metric families.
func (c *promChecker) fetch(ctx context.Context) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseMetrics(resp.Body)
}

// parseMetrics decodes a Prometheus text exposition from r into metric families.
// A partial result with a non-fatal parse warning is still returned successfully.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// gaugeValue returns the first gauge or untyped value in mf, or 1 when the
// family carries no samples.
func gaugeValue(mf *dto.MetricFamily) float64 {
	for _, m := range mf.GetMetric() {
		switch {
		case m.Gauge != nil:
			return m.Gauge.GetValue()
		case m.Untyped != nil:
			return m.Untyped.GetValue()
		}
	}
	return 1
}
