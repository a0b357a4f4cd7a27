package errors

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Display   string         `json:"message"`
	Code      string         `json:"code,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

var sentinels = []*InternalError{
	ErrValidation,
	ErrNotFound,
	ErrConflict,
	ErrAlreadyExists,
	ErrInvalidOperation,
	ErrUnavailable,
	ErrHTTPClient,
	ErrDatabase,
	ErrRateLimited,
	ErrSystem,
}

// CodeFromErr returns the machine readable code of the first sentinel the error is marked with
func CodeFromErr(err error) string {
	for _, s := range sentinels {
		if Is(err, s) {
			return s.Code
		}
	}
	return ErrCodeSystemError
}

// NewErrorResponse renders an error for API clients from its hints and reportable details
func NewErrorResponse(err error, requestID string) ErrorResponse {
	display := DisplayMessage(err)
	if display == "" {
		display = "An unexpected error occurred"
	}

	details := ReportableDetails(err)
	if len(details) == 0 {
		details = nil
	}

	return ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Display:   display,
			Code:      CodeFromErr(err),
			RequestID: requestID,
			Details:   details,
		},
	}
}
