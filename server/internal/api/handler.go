package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/statuswatch/statuswatch/pkg/types"
	"github.com/statuswatch/statuswatch/server/internal/alerts"
	"github.com/statuswatch/statuswatch/server/internal/ingest"
	"github.com/statuswatch/statuswatch/server/internal/resolve"
)

// Version reported by GET /.
const Version = "2.0"

const notAvailable = "N/A"

// Probe is the reachability check behind GET /health.
type Probe interface {
	Healthy(ctx context.Context) bool
}

// Handler is the HTTP handler for the status API. It maps transport
// concerns (routing, JSON, status codes) onto the gateway and resolver
// contracts; all domain decisions live in those packages.
type Handler struct {
	registry *types.Registry
	probe    Probe
	gateway  *ingest.Gateway
	resolver *resolve.Resolver
	alerts   *alerts.Engine
	mux      *http.ServeMux
}

// New creates a Handler and registers all routes. alertEngine may be nil;
// GET /alerts then serves an empty list.
func New(registry *types.Registry, probe Probe, gw *ingest.Gateway, rs *resolve.Resolver, alertEngine *alerts.Engine) http.Handler {
	h := &Handler{
		registry: registry,
		probe:    probe,
		gateway:  gw,
		resolver: rs,
		alerts:   alertEngine,
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("/", h.index) // catch-all — also serves JSON 404s
	h.mux.HandleFunc("/health", h.health)
	h.mux.HandleFunc("/healthcheck", h.healthcheckAll)
	h.mux.HandleFunc("/healthcheck/", h.healthcheckOne) // subtree — extracts {service}
	h.mux.HandleFunc("/add", h.add)
	h.mux.HandleFunc("/alerts", h.activeAlerts)
	h.mux.Handle("/metrics", promhttp.Handler())

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slog.Info("request", "method", r.Method, "path", r.URL.Path)
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// index serves GET / — API self-description. Any other path falling through
// to the catch-all is a JSON 404.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		jsonResp(w, http.StatusNotFound, errorResponse{Error: "endpoint not found", Path: r.URL.Path})
		return
	}
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	jsonResp(w, http.StatusOK, InfoResponse{
		Service:     "statuswatch-api",
		Version:     Version,
		Description: "Service Status Management API",
		Endpoints: map[string]string{
			"/health":                "GET - API health check",
			"/healthcheck":           "GET - Get all services status",
			"/healthcheck/{service}": "GET - Get specific service status",
			"/add":                   "POST - Add service status observation",
			"/alerts":                "GET - Active alerts",
			"/metrics":               "GET - Prometheus metrics",
		},
		SupportedServices: h.registry.Names(),
	})
}

// health serves GET /health — store reachability only.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.probe.Healthy(r.Context()) {
		jsonResp(w, http.StatusOK, HealthResponse{Status: "healthy"})
		return
	}
	jsonResp(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy"})
}

// healthcheckAll serves GET /healthcheck — the bulk status snapshot.
func (h *Handler) healthcheckAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp, err := BuildStatusSnapshot(r.Context(), h.resolver)
	switch {
	case errors.Is(err, types.ErrBackendUnavailable):
		jsonResp(w, http.StatusServiceUnavailable, errorResponse{
			Error:  "status store unavailable",
			Status: string(types.StatusUnknown),
		})
		return
	case err != nil:
		jsonResp(w, http.StatusInternalServerError, errorResponse{
			Error:  "failed to resolve services status",
			Status: string(types.StatusError),
		})
		return
	}
	jsonResp(w, http.StatusOK, resp)
}

// healthcheckOne serves GET /healthcheck/{service}.
func (h *Handler) healthcheckOne(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	service := strings.TrimPrefix(r.URL.Path, "/healthcheck/")
	if service == "" {
		h.healthcheckAll(w, r)
		return
	}

	view, err := h.resolver.ResolveOne(r.Context(), service)
	switch {
	case errors.Is(err, types.ErrUnknownService):
		jsonResp(w, http.StatusBadRequest, errorResponse{
			Error:             "unknown service: " + service,
			AvailableServices: h.registry.Names(),
		})
		return
	case errors.Is(err, types.ErrBackendUnavailable):
		jsonResp(w, http.StatusServiceUnavailable, ServiceStatusResponse{
			Service: service,
			Status:  string(types.StatusUnknown),
			Reason:  "status store unavailable",
		})
		return
	case err != nil:
		jsonResp(w, http.StatusInternalServerError, errorResponse{
			Error:  "failed to resolve service status",
			Status: string(types.StatusError),
		})
		return
	}

	resp := ServiceStatusResponse{
		Service: service,
		Status:  string(view.Status),
	}
	switch view.Status {
	case types.StatusNoData:
		resp.Message = "no status data recorded for " + service
	case types.StatusUnknown:
		resp.Message = "status query failed for " + service
	default:
		resp.HostName = view.HostName
		resp.Timestamp = types.FormatTime(*view.ObservedAt)
	}
	jsonResp(w, http.StatusOK, resp)
}

// add serves POST /add — the ingestion endpoint.
func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		jsonErr(w, http.StatusBadRequest, "request must be JSON")
		return
	}

	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cand := ingest.Candidate{
		ServiceName: req.ServiceName,
		Status:      req.ServiceStatus,
		HostName:    req.HostName,
	}
	if req.Timestamp != "" {
		ts, err := types.ParseTime(req.Timestamp)
		if err != nil {
			jsonErr(w, http.StatusBadRequest, "invalid timestamp: "+req.Timestamp)
			return
		}
		cand.ObservedAt = ts
	}

	acc, err := h.gateway.Submit(r.Context(), cand)
	switch {
	case errors.Is(err, types.ErrMalformedPayload):
		jsonResp(w, http.StatusBadRequest, errorResponse{
			Error:          "missing required fields",
			RequiredFields: []string{"service_name", "service_status", "host_name"},
		})
		return
	case errors.Is(err, types.ErrUnknownService):
		jsonResp(w, http.StatusBadRequest, errorResponse{
			Error:             "unknown service: " + req.ServiceName,
			SupportedServices: h.registry.Names(),
		})
		return
	case errors.Is(err, types.ErrBackendUnavailable):
		jsonResp(w, http.StatusServiceUnavailable, errorResponse{
			Error:  "status store unavailable",
			Status: "FAILED",
		})
		return
	case err != nil:
		slog.Error("add: write failed", "service", req.ServiceName, "err", err)
		jsonResp(w, http.StatusInternalServerError, errorResponse{
			Error:  "failed to store observation",
			Status: "FAILED",
		})
		return
	}

	obs := acc.Observation
	jsonResp(w, http.StatusCreated, AddResponse{
		Message:         "status for " + obs.ServiceName + " successfully recorded",
		Service:         obs.ServiceName,
		Status:          string(obs.Status),
		HostName:        obs.HostName,
		Timestamp:       types.FormatTime(obs.ObservedAt),
		ElasticsearchID: acc.ID,
	})
}

// activeAlerts serves GET /alerts.
func (h *Handler) activeAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.alerts == nil {
		jsonResp(w, http.StatusOK, []struct{}{})
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// --- helpers ----------------------------------------------------------------

// BuildStatusSnapshot resolves every registered service into the bulk
// healthcheck payload. Shared with the WebSocket hub, which broadcasts the
// same shape.
func BuildStatusSnapshot(ctx context.Context, rs *resolve.Resolver) (HealthcheckResponse, error) {
	views, err := rs.ResolveAll(ctx)
	if err != nil {
		return HealthcheckResponse{}, err
	}

	services := make(map[string]ServiceEntry, len(views))
	for name, v := range views {
		entry := ServiceEntry{Status: string(v.Status), Timestamp: notAvailable}
		if v.ObservedAt != nil {
			entry.Timestamp = types.FormatTime(*v.ObservedAt)
		}
		services[name] = entry
	}

	return HealthcheckResponse{
		Timestamp: types.FormatTime(time.Now()),
		Services:  services,
	}, nil
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
