package domain

// Notification is a user-facing message raised when a vote could not be saved.
type Notification struct {
	EntityID string
	Title    string
	Message  string
	Err      error
}
