package app

import "context"

// Pinger reports whether the event store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResult represents the health check response.
type HealthResult struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HealthService implements the health check.
type HealthService struct {
	Version string
	Store   Pinger
}

// Handle returns the current health status. A store that cannot be reached
// degrades the status without failing the request.
func (s HealthService) Handle(ctx context.Context) HealthResult {
	status := "ok"
	if s.Store != nil {
		if err := s.Store.Ping(ctx); err != nil {
			status = "degraded"
		}
	}
	return HealthResult{Status: status, Version: s.Version}
}
