package realtime

// Stream names understood by the hub.
const (
	// StreamNotifications carries per-user notification events.
	StreamNotifications = "notifications"
	// StreamAdminUsers carries account-lifecycle events for administrators,
	// such as verified users awaiting activation.
	StreamAdminUsers = "admin.users"
)
