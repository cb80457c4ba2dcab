package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrAdminAccessOnly  ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrInvalidID  ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Question bank import ──────────────────────────────────────────
	ErrFileRequired          ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile       ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge          ErrCode = "FILE_TOO_LARGE"
	ErrInvalidFilenameFormat ErrCode = "INVALID_FILENAME_FORMAT"
	ErrUnknownSubject        ErrCode = "UNKNOWN_SUBJECT"
	ErrUnreadableFile        ErrCode = "UNREADABLE_FILE"
	ErrImportBusy            ErrCode = "IMPORT_BUSY"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrPermissionDenied:
		return "Permission denied."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Question bank import ──────────────────────────────────────────
	case ErrFileRequired:
		return "A question bank file is required."
	case ErrUnsupportedFile:
		return "Unsupported file type. Upload an .xlsx or .csv file."
	case ErrFileTooLarge:
		return "File size exceeds the limit."
	case ErrInvalidFilenameFormat:
		return "File name must look like subject_unit_1_chap_2_name_qb.xlsx."
	case ErrUnknownSubject:
		return "The subject in the file name is not recognised."
	case ErrUnreadableFile:
		return "The file could not be read as a spreadsheet."
	case ErrImportBusy:
		return "Another import for this chapter is in progress. Try again shortly."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
