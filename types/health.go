package types

type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "UP"
	HealthStatusDown     HealthStatus = "DOWN"
	HealthStatusDegraded HealthStatus = "DEGRADED"
)

// HealthComponent is the state of one dependency. Optional dependencies
// that are not configured report UP with a "disabled" detail.
type HealthComponent struct {
	Status  HealthStatus `json:"status"`
	Details string       `json:"details,omitempty"`
}

type HealthCheck struct {
	Status      HealthStatus               `json:"status"`
	Components  map[string]HealthComponent `json:"components"`
	Version     string                     `json:"version"`
	Environment string                     `json:"environment,omitempty"`
	Timestamp   string                     `json:"timestamp"`
	Uptime      string                     `json:"uptime"`
}
