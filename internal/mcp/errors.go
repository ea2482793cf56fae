package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/ganttline/internal/domain/activity"
	"github.com/rpggio/ganttline/internal/domain/chart"
	"github.com/rpggio/ganttline/internal/domain/project"
	"github.com/rpggio/ganttline/internal/exchange"
	"github.com/rpggio/ganttline/internal/timeline"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes. Validation errors keep
// their detail in Message.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid ids"}
	case errors.Is(err, project.ErrDuplicateID):
		return &APIError{Code: "DUPLICATE_PROJECT", Message: "project id already exists", RecoveryHint: "Omit id to have one generated"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_PROJECT", Message: err.Error(), RecoveryHint: "Name, start_date and end_date are required; end_date must not precede start_date"}
	case errors.Is(err, chart.ErrInvalidSettings):
		return &APIError{Code: "INVALID_SETTINGS", Message: err.Error(), RecoveryHint: "column_width is 10-200, project_column_width is 100-400"}
	case errors.Is(err, timeline.ErrUnknownGranularity):
		return &APIError{Code: "UNKNOWN_GRANULARITY", Message: err.Error(), RecoveryHint: "Use day, week, month, quarter or year"}
	case errors.Is(err, exchange.ErrInvalidDocument):
		return &APIError{Code: "INVALID_DOCUMENT", Message: err.Error(), RecoveryHint: "Pass the document produced by export_chart"}
	case errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_ACTIVITY", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
