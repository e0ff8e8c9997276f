// Package errors provides standardized error handling for the admission
// process workers, including the mapping to BPMN error codes.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Admission error codes. Validation and temporal errors are rejected
// synchronously with the stored state untouched; only infrastructure
// failures are retryable.
const (
	// Validation errors
	ErrCodeDuplicateEmail    ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeInvalidPosition   ErrorCode = "INVALID_POSITION"
	ErrCodeDuplicateCode     ErrorCode = "DUPLICATE_CODE"
	ErrCodeInvalidCapacity   ErrorCode = "INVALID_CAPACITY"
	ErrCodeDossierInvalid    ErrorCode = "DOSSIER_VALIDATION_FAILED"
	ErrCodeInvalidStatus     ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// Temporal errors (kept distinct from validation so callers can show
	// a "window closed" message instead of a field error)
	ErrCodeEditingClosed ErrorCode = "EDITING_CLOSED"

	// Not-found errors (no-op with signal, never silently ignored)
	ErrCodeApplicantNotFound ErrorCode = "APPLICANT_NOT_FOUND"
	ErrCodePositionNotFound  ErrorCode = "POSITION_NOT_FOUND"
	ErrCodeListItemNotFound  ErrorCode = "LIST_ITEM_NOT_FOUND"

	// Infrastructure errors
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType         ErrorCode = "INVALID_QUERY_TYPE"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout            ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound            ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeBulkUpdateFailed         ErrorCode = "BULK_UPDATE_FAILED"
	ErrCodeAuthenticationFailed     ErrorCode = "AUTHENTICATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// NewDuplicateEmailError creates a non-retryable unique-email violation.
func NewDuplicateEmailError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateEmail,
		Message:   "An applicant with this email already exists",
		Details:   fmt.Sprintf("email: %s", email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPositionError creates a non-retryable unknown-position error.
func NewInvalidPositionError(code string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPosition,
		Message:   "Target position code does not resolve to an open position",
		Details:   fmt.Sprintf("positionCode: %s", code),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateCodeError creates a non-retryable unique-key violation for
// reference data (position codes, catalog values).
func NewDuplicateCodeError(collection, code string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateCode,
		Message:   "Unique key already exists in collection",
		Details:   fmt.Sprintf("collection: %s, code: %s", collection, code),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCapacityError creates a non-retryable configuration error,
// surfaced at save time rather than at ranking time.
func NewInvalidCapacityError(field string, value int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCapacity,
		Message:   "Funnel capacity must be a non-negative integer",
		Details:   fmt.Sprintf("field: %s, value: %d", field, value),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDossierValidationError creates a non-retryable dossier field error.
func NewDossierValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDossierInvalid,
		Message:   "Dossier data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError creates a non-retryable workflow guard error.
func NewInvalidTransitionError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Status transition is not part of the workflow graph",
		Details:   fmt.Sprintf("from: %s, to: %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEditingClosedError creates a non-retryable temporal error for
// applicant edits attempted after the deadline.
func NewEditingClosedError(deadline string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEditingClosed,
		Message:   "The submission and editing window has closed",
		Details:   fmt.Sprintf("deadline: %s", deadline),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicantNotFoundError creates a non-retryable not-found error.
func NewApplicantNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicantNotFound,
		Message:   "Applicant not found",
		Details:   fmt.Sprintf("applicantId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPositionNotFoundError creates a non-retryable not-found error.
func NewPositionNotFoundError(code string) *StandardError {
	return &StandardError{
		Code:      ErrCodePositionNotFound,
		Message:   "Position not found",
		Details:   fmt.Sprintf("positionCode: %s", code),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewListItemNotFoundError creates a non-retryable not-found error.
func NewListItemNotFoundError(catalog, value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeListItemNotFound,
		Message:   "List item not found",
		Details:   fmt.Sprintf("catalog: %s, value: %s", catalog, value),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable delivery error.
// The stored notification record is written before delivery, so retrying
// the send never duplicates the record.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBulkUpdateFailedError creates a retryable error for a rolled-back
// bulk transition; the stored state is exactly as it was before.
func NewBulkUpdateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBulkUpdateFailed,
		Message:   "Bulk status update rolled back",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError creates a non-retryable credential error.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationFailed,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// BPMNErrorMapping maps internal error codes to BPMN error codes.
// The codes are identical on both sides.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeDuplicateEmail:           "DUPLICATE_EMAIL",
	ErrCodeInvalidPosition:          "INVALID_POSITION",
	ErrCodeDuplicateCode:            "DUPLICATE_CODE",
	ErrCodeInvalidCapacity:          "INVALID_CAPACITY",
	ErrCodeDossierInvalid:           "DOSSIER_VALIDATION_FAILED",
	ErrCodeInvalidStatus:            "INVALID_STATUS",
	ErrCodeInvalidTransition:        "INVALID_TRANSITION",
	ErrCodeEditingClosed:            "EDITING_CLOSED",
	ErrCodeApplicantNotFound:        "APPLICANT_NOT_FOUND",
	ErrCodePositionNotFound:         "POSITION_NOT_FOUND",
	ErrCodeListItemNotFound:         "LIST_ITEM_NOT_FOUND",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:             "QUERY_TIMEOUT",
	ErrCodeInvalidQueryType:         "INVALID_QUERY_TYPE",
	ErrCodeSearchQueryFailed:        "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:            "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:            "INDEX_NOT_FOUND",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeBulkUpdateFailed:         "BULK_UPDATE_FAILED",
	ErrCodeAuthenticationFailed:     "AUTHENTICATION_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeBulkUpdateFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DUPLICATE") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "CAPACITY"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CLOSED"):
		return "TEMPORAL"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "TRANSITION") || strings.Contains(codeStr, "STATUS"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "AUTH"):
		return "AUTH"
	default:
		return "OTHER"
	}
}
