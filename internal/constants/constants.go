package constants

// Session and context keys
const (
	SessionCookieName = "taskflow_session"
	ContextKeyUserID  = "user_id"
)

// Validation limits
const (
	MinPasswordLength = 8
	MaxNameLength     = 255
)

// DefaultProjectColor is applied when a project is created without a color.
const DefaultProjectColor = "#3B82F6"
