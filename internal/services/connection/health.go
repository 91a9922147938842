package connection

import (
	"context"
	"strings"
)

// HealthMode selects how CheckHealth probes the database.
type HealthMode string

const (
	// HealthModeActive resolves a client and pings the server. Accurate, but
	// blocks for up to the health timeout when the server is slow or unreachable.
	HealthModeActive HealthMode = "active"

	// HealthModePassive only checks that a connection string is configured.
	// Fast and offline, but does not detect an actual outage.
	HealthModePassive HealthMode = "passive"
)

// HealthStatus is the result of a health probe.
type HealthStatus struct {
	OK      bool       `json:"ok"`
	Message string     `json:"message"`
	Mode    HealthMode `json:"mode"`
}

// HealthMode returns the configured probe mode.
func (m *Manager) HealthMode() HealthMode {
	return m.healthMode
}

// CheckHealth probes the database according to the configured mode.
// Failures are folded into the returned status and never returned as errors.
func (m *Manager) CheckHealth(ctx context.Context) HealthStatus {
	if m.healthMode == HealthModePassive {
		return m.checkConfigured(ctx)
	}
	return m.checkReachable(ctx)
}

func (m *Manager) checkConfigured(ctx context.Context) HealthStatus {
	status := HealthStatus{Mode: HealthModePassive}

	uri, err := m.secrets.GetSecret(ctx, m.uriSecret)
	if err != nil || strings.TrimSpace(uri) == "" {
		status.Message = "MONGODB_URI is not configured"
		return status
	}

	status.OK = true
	status.Message = "database connection is configured"
	return status
}

func (m *Manager) checkReachable(ctx context.Context) HealthStatus {
	status := HealthStatus{Mode: HealthModeActive}

	ctx, cancel := context.WithTimeout(ctx, m.healthTimeout)
	defer cancel()

	client, err := m.Client(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("health check failed to resolve client")
		status.Message = err.Error()
		return status
	}

	if err := client.Ping(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("health check ping failed")
		status.Message = err.Error()
		return status
	}

	status.OK = true
	status.Message = "database connection is healthy"
	return status
}
