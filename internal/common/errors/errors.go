package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeCatalogLoadFailed       ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogValidationFailed ErrorCode = "CATALOG_VALIDATION_FAILED"
	ErrCodeNicheNotFound           ErrorCode = "NICHE_NOT_FOUND"

	ErrCodeProfileNotFound            ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileInvalid             ErrorCode = "PROFILE_INVALID"
	ErrCodeAssessmentValidationFailed ErrorCode = "ASSESSMENT_VALIDATION_FAILED"
	ErrCodeSessionStoreFailed         ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeSessionExpired             ErrorCode = "SESSION_EXPIRED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"

	ErrCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	ErrCodeEngineTimeout     ErrorCode = "ENGINE_TIMEOUT"

	ErrCodeRankingFailed ErrorCode = "RANKING_FAILED"
	ErrCodeParseError    ErrorCode = "PARSE_ERROR"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the error shape every worker reports to the engine.
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

// WithMetadata attaches a key to the error metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

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

// ToErrorVariables returns the variables sent with a thrown BPMN error.
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

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewCatalogLoadFailedError(source string, err error) *StandardError {
	return newError(ErrCodeCatalogLoadFailed, "Niche catalog could not be loaded",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), true)
}

func NewCatalogValidationFailedError(details string) *StandardError {
	return newError(ErrCodeCatalogValidationFailed, "Niche catalog failed validation", details, false)
}

func NewNicheNotFoundError(name string) *StandardError {
	return newError(ErrCodeNicheNotFound, "Niche not found in catalog", fmt.Sprintf("niche: %s", name), false)
}

func NewProfileNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeProfileNotFound, "No stored profile for session", fmt.Sprintf("sessionId: %s", sessionID), false)
}

func NewProfileInvalidError(details string) *StandardError {
	return newError(ErrCodeProfileInvalid, "User profile is invalid", details, false)
}

func NewAssessmentValidationFailedError(details string) *StandardError {
	return newError(ErrCodeAssessmentValidationFailed, "Assessment answers failed validation", details, false)
}

func NewSessionStoreFailedError(op string, err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store error",
		fmt.Sprintf("op: %s, error: %s", op, err.Error()), true)
}

func NewSessionExpiredError(sessionID string) *StandardError {
	return newError(ErrCodeSessionExpired, "Session has expired", fmt.Sprintf("sessionId: %s", sessionID), false)
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

// NewQueryExecutionFailedError creates a retryable query error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

func NewEngineUnavailableError(err error) *StandardError {
	return newError(ErrCodeEngineUnavailable, "Workflow engine unavailable", err.Error(), true)
}

func NewEngineTimeoutError(err error) *StandardError {
	return newError(ErrCodeEngineTimeout, "Workflow engine request timed out", err.Error(), true)
}

func NewRankingFailedError(details string) *StandardError {
	return newError(ErrCodeRankingFailed, "Niche ranking failed", details, false)
}

func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Failed to parse job variables", err.Error(), false)
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeCatalogLoadFailed:          "CATALOG_LOAD_FAILED",
	ErrCodeCatalogValidationFailed:    "CATALOG_VALIDATION_FAILED",
	ErrCodeNicheNotFound:              "NICHE_NOT_FOUND",
	ErrCodeProfileNotFound:            "PROFILE_NOT_FOUND",
	ErrCodeProfileInvalid:             "PROFILE_INVALID",
	ErrCodeAssessmentValidationFailed: "ASSESSMENT_VALIDATION_FAILED",
	ErrCodeSessionStoreFailed:         "SESSION_STORE_FAILED",
	ErrCodeSessionExpired:             "SESSION_EXPIRED",
	ErrCodeDatabaseConnectionFailed:   "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:       "QUERY_EXECUTION_FAILED",
	ErrCodeEngineUnavailable:          "ENGINE_UNAVAILABLE",
	ErrCodeEngineTimeout:              "ENGINE_TIMEOUT",
	ErrCodeRankingFailed:              "RANKING_FAILED",
	ErrCodeParseError:                 "PARSE_ERROR",
}

// GetRetryCount returns the recommended retry count for code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeEngineUnavailable,
		ErrCodeEngineTimeout:
		return 3
	case ErrCodeCatalogLoadFailed:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError maps a StandardError to the BPMN error thrown to the engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// IsRetryableErrorCode reports whether code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "NICHE"):
		return "CATALOG"
	case strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "PROFILE"):
		return "SESSION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "ENGINE"):
		return "ENGINE"
	case strings.Contains(codeStr, "RANKING"):
		return "SCORING"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// AsStandardError unwraps err into a StandardError, wrapping unknown errors
// as non-retryable internal errors.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}
