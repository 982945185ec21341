package constants

const (
	// ContextKeyUserID is the gin context and session key for the authenticated user.
	ContextKeyUserID = "user_id"
	// SessionCookieName is the cookie that carries the fallback session.
	SessionCookieName = "taskify_session"

	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	MaxUploadFiles       = 5
	MaxUploadFileSize    = 10 << 20
	MaxProfileImageSize  = 5 << 20
	ProfileImageSubdir   = "profile-images"
	UploadURLPrefix      = "/uploads"
	MaxAIGeneratedTasks  = 20
	TotalCountHeaderName = "X-Total-Count"
)
