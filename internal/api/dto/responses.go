// Package dto provides Data Transfer Objects for API responses.
package dto

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Mode       string            `json:"mode"`
	Message    string            `json:"message"`
	Components map[string]string `json:"components,omitempty"`
}

// ReadyResponse represents a readiness check response.
type ReadyResponse struct {
	Status     string   `json:"status"`
	Collection string   `json:"collection"`
	Outcome    string   `json:"outcome,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// ValidateIDResponse reports whether an identifier has the external ID format.
type ValidateIDResponse struct {
	ID    string `json:"id"`
	Valid bool   `json:"valid"`
}

// DonationResponse wraps a stored donation document.
type DonationResponse struct {
	ID       string                 `json:"id"`
	Donation map[string]interface{} `json:"donation"`
}
