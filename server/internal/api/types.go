package api

// InfoResponse is the payload for GET / — API self-description.
type InfoResponse struct {
	Service           string            `json:"service"`
	Version           string            `json:"version"`
	Description       string            `json:"description"`
	Endpoints         map[string]string `json:"endpoints"`
	SupportedServices []string          `json:"supported_services"`
}

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	Status string `json:"status"` // "healthy" | "unhealthy"
}

// ServiceEntry is one service's resolved state inside the bulk healthcheck.
// Timestamp is "N/A" when the state carries no observation (NO_DATA, ERROR).
type ServiceEntry struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HealthcheckResponse is the payload for GET /healthcheck.
type HealthcheckResponse struct {
	Timestamp string                  `json:"timestamp"`
	Services  map[string]ServiceEntry `json:"services"`
}

// ServiceStatusResponse is the payload for GET /healthcheck/{service}.
type ServiceStatusResponse struct {
	Service   string `json:"service"`
	Status    string `json:"status"`
	HostName  string `json:"host_name,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Message   string `json:"message,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// AddRequest is the body of POST /add. Timestamp is optional; when absent
// the gateway stamps the current UTC time.
type AddRequest struct {
	ServiceName   string `json:"service_name"`
	ServiceStatus string `json:"service_status"`
	HostName      string `json:"host_name"`
	Timestamp     string `json:"timestamp,omitempty"`
}

// AddResponse is the success payload of POST /add.
type AddResponse struct {
	Message         string `json:"message"`
	Service         string `json:"service"`
	Status          string `json:"status"`
	HostName        string `json:"host_name"`
	Timestamp       string `json:"timestamp"`
	ElasticsearchID string `json:"elasticsearch_id"`
}

// errorResponse is the generic JSON error body. Optional fields carry the
// context the matching endpoint documents: required_fields for malformed
// submissions, supported/available service lists for unknown names, a
// FAILED/UNKNOWN status marker for backend failures.
type errorResponse struct {
	Error             string   `json:"error"`
	Status            string   `json:"status,omitempty"`
	RequiredFields    []string `json:"required_fields,omitempty"`
	SupportedServices []string `json:"supported_services,omitempty"`
	AvailableServices []string `json:"available_services,omitempty"`
	Path              string   `json:"path,omitempty"`
}
