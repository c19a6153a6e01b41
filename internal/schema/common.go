package schema

// ErrorResponse represents a standard error payload.
type ErrorResponse struct {
	Error string `json:"error" msgpack:"error"`
}

// HealthResponse represents the health check response payload.
type HealthResponse struct {
	Status   string          `json:"status" msgpack:"status"`
	Upstream *UpstreamHealth `json:"upstream,omitempty" msgpack:"upstream,omitempty"`
}

// UpstreamHealth reports reachability of the completion API.
type UpstreamHealth struct {
	Status    string `json:"status" msgpack:"status"`
	Provider  string `json:"provider" msgpack:"provider"`
	LatencyMS int64  `json:"latency_ms" msgpack:"latency_ms"`
	Error     string `json:"error,omitempty" msgpack:"error,omitempty"`
}
