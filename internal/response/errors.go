package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Identification ────────────────────────────────────────────────
	ErrPlayerIDRequired ErrCode = "PLAYER_ID_REQUIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Quiz session ──────────────────────────────────────────────────
	ErrNoCategorySelected    ErrCode = "NO_CATEGORY_SELECTED"
	ErrNoQuestionsAvailable  ErrCode = "NO_QUESTIONS_AVAILABLE"
	ErrInsufficientQuestions ErrCode = "INSUFFICIENT_QUESTIONS"
	ErrNoActiveSession       ErrCode = "NO_ACTIVE_SESSION"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrPlayerIDRequired:
		return "A player ID is required. Set the X-Player-ID header."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNoCategorySelected:
		return "Select at least one category before starting a quiz."
	case ErrNoQuestionsAvailable:
		return "No questions are available for the selected filters."
	case ErrInsufficientQuestions:
		return "Not enough questions are available for the requested quiz size."
	case ErrNoActiveSession:
		return "There is no active quiz session."
	case ErrNotFound:
		return "Resource not found."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
