package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionQBankUpload allows importing question bank spreadsheets.
	PermissionQBankUpload Permission = "qbank:upload"

	// PermissionQBankRead allows browsing uploads and the questions they produced.
	PermissionQBankRead Permission = "qbank:read"

	// PermissionQBankDelete allows withdrawing an upload together with its questions.
	PermissionQBankDelete Permission = "qbank:delete"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionQBankUpload,
	PermissionQBankRead,
	PermissionQBankDelete,
}
