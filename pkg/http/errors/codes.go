package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeLoginFailed            = "login_failed"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound = "not_found"

	// Quiz view errors
	ErrCodeQuizFetchFailed  = "quiz_fetch_failed"
	ErrCodeSessionNotFound  = "session_not_found"
	ErrCodeQuestionNotFound = "question_not_found"
	ErrCodeSlotNotFound     = "slot_not_found"
	ErrCodeAlreadySubmitted = "already_submitted"
	ErrCodeSubmitFailed     = "submit_failed"
	ErrCodeResetFailed      = "reset_failed"

	// Flashcard errors
	ErrCodeFlashcardsFetchFailed = "flashcards_fetch_failed"
	ErrCodeEvaluationFailed      = "evaluation_failed"

	// Export errors
	ErrCodeExportStartFailed = "export_start_failed"
	ErrCodeExportListFailed  = "export_list_failed"
	ErrCodeExportNotReady    = "export_not_ready"
	ErrCodeDownloadFailed    = "download_failed"

	// WebSocket errors
	ErrCodeInvalidPayload  = "invalid_payload"
	ErrCodeConnectionError = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
