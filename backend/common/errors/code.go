package errors

// Generic error codes.
const (
	ErrInternalServer = "ERR_INTERNAL_SERVER"
	ErrInvalidParam   = "ERR_INVALID_PARAM"
	ErrEmptyID        = "ERR_EMPTY_ID"
)

// User and auth error codes.
const (
	ErrUserNotFound       = "ERR_USER_NOT_FOUND"
	ErrEmptyCredentials   = "ERR_EMPTY_CREDENTIALS"
	ErrInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrUserDisabled       = "ERR_USER_DISABLED"
	ErrEmailTaken         = "ERR_EMAIL_TAKEN"
	ErrUsernameTaken      = "ERR_USERNAME_TAKEN"
)

// Workspace and folder error codes.
const (
	ErrWorkspaceNotFound = "ERR_WORKSPACE_NOT_FOUND"
	ErrWorkspaceExists   = "ERR_WORKSPACE_EXISTS"
	ErrFolderNotFound    = "ERR_FOLDER_NOT_FOUND"
	ErrFolderNotEmpty    = "ERR_FOLDER_NOT_EMPTY"
	ErrNotOwner          = "ERR_NOT_OWNER"
)

// Link error codes.
const (
	ErrLinkNotFound      = "ERR_LINK_NOT_FOUND"
	ErrLinkInactive      = "ERR_LINK_INACTIVE"
	ErrLinkExpired       = "ERR_LINK_EXPIRED"
	ErrLinkPassword      = "ERR_LINK_PASSWORD"
	ErrSlugTaken         = "ERR_SLUG_TAKEN"
	ErrSlugGenExhausted  = "ERR_SLUG_GEN_EXHAUSTED"
	ErrTooManyFiles      = "ERR_TOO_MANY_FILES"
	ErrFileTooLarge      = "ERR_FILE_TOO_LARGE"
	ErrQuotaExceeded     = "ERR_QUOTA_EXCEEDED"
	ErrActiveLinkLimit   = "ERR_ACTIVE_LINK_LIMIT"
	ErrNoFilesInUpload   = "ERR_NO_FILES_IN_UPLOAD"
)

// File and batch error codes.
const (
	ErrFileNotFound  = "ERR_FILE_NOT_FOUND"
	ErrBatchNotFound = "ERR_BATCH_NOT_FOUND"
)

// Notification error codes.
const (
	ErrNotificationNotFound = "ERR_NOTIFICATION_NOT_FOUND"
)

// Billing error codes.
const (
	ErrSubscriptionNotFound = "ERR_SUBSCRIPTION_NOT_FOUND"
	ErrUnknownPlan          = "ERR_UNKNOWN_PLAN"
	ErrWebhookSignature     = "ERR_WEBHOOK_SIGNATURE"
)
