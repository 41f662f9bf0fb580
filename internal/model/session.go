package model

// Session carries the identity under which all remote calls are made.
// It is constructed once at startup and passed explicitly; changing
// identity means re-initializing the schedule store with a new Session.
type Session struct {
	// Token is the host-provided credential. The client never parses
	// it; it is sent verbatim as the Authorization header and the
	// backend derives the owner from it.
	Token string

	// UserID is an optional display-only hint of who is signed in.
	UserID string
}
