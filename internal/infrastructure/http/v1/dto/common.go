// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// ErrorResponse is the JSON shape of every error rendered by the error
// middleware.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
