package apperror

// ErrorCode is the coarse failure category rendered to clients.
type ErrorCode string

const (
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeInternalError    ErrorCode = "INTERNAL_SERVER_ERROR"
)

// BusinessCode names the precise reason behind an ErrorCode.
type BusinessCode string

const (
	BusinessCodeGeneral BusinessCode = "GENERAL"

	// Users
	BusinessCodeUserNotFound     BusinessCode = "USER_NOT_FOUND"
	BusinessCodeNoUsersFound     BusinessCode = "NO_USERS_FOUND"
	BusinessCodeUsernameTaken    BusinessCode = "USERNAME_TAKEN"
	BusinessCodeUsernameReserved BusinessCode = "USERNAME_RESERVED"
	BusinessCodeInvalidUsername  BusinessCode = "INVALID_USERNAME"
	BusinessCodeInvalidSearch    BusinessCode = "INVALID_SEARCH"

	// Posts and media
	BusinessCodePostNotFound   BusinessCode = "POST_NOT_FOUND"
	BusinessCodeMediaNotFound  BusinessCode = "MEDIA_NOT_FOUND"
	BusinessCodeMediaInUse     BusinessCode = "MEDIA_IN_USE"
	BusinessCodeInvalidCaption BusinessCode = "INVALID_CAPTION"

	// Comments
	BusinessCodeCommentNotFound BusinessCode = "COMMENT_NOT_FOUND"
	BusinessCodeInvalidComment  BusinessCode = "INVALID_COMMENT"

	BusinessCodeInvalidFormat    BusinessCode = "INVALID_FORMAT"
	BusinessCodePermissionDenied BusinessCode = "PERMISSION_DENIED"
)
