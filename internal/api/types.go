package api

import "github.com/orbitlab/planetforge/internal/derive"

// GenerateResponse is the POST /generate response body.
type GenerateResponse struct {
	SessionID string         `json:"session_id"`
	Generated *derive.Result `json:"generated"`
}

// HealthResponse is the GET /health response body.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
