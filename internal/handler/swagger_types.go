package handler

import (
	"vtuportal/internal/domain"
	"vtuportal/internal/semester"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"result store not reachable"`
}

// EvaluationResponse is the body of a successful or terminal evaluation.
type EvaluationResponse struct {
	Evaluation *domain.Evaluation `json:"evaluation"`
	Warning    string             `json:"warning,omitempty" example:"result computed but could not be saved: result store unavailable"`
}

// SemesterResponse describes one configured semester.
type SemesterResponse struct {
	semester.Spec
	TotalCredits int `json:"total_credits" example:"20"`
}

func newSemesterResponse(c *semester.Config) SemesterResponse {
	return SemesterResponse{Spec: c.Spec(), TotalCredits: c.TotalCredits()}
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

// TerminalEvaluationBody is returned with 422 when no SGPA could be produced.
type TerminalEvaluationBody struct {
	Success bool               `json:"success" example:"false"`
	Data    EvaluationResponse `json:"data"`
	Error   *APIError          `json:"error"`
}
