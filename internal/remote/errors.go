package remote

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed remote call.
type ErrorKind string

const (
	// KindNetwork covers transport failures: the request never
	// produced an HTTP response.
	KindNetwork ErrorKind = "network"

	// KindServer covers 5xx and other unexpected statuses.
	KindServer ErrorKind = "server"

	// KindUnauthorized means the credential was rejected (401/403).
	KindUnauthorized ErrorKind = "unauthorized"

	// KindNotFound means the item does not exist server-side (404).
	KindNotFound ErrorKind = "not_found"
)

// Error is the typed failure returned by every Client method.
type Error struct {
	Kind   ErrorKind
	Op     string // e.g. "DELETE /api/items/abc"
	Status int    // HTTP status, 0 for transport failures
	Err    error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote %s (%s): %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("remote %s (%s): status %d", e.Op, e.Kind, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a remote error in err's chain, or "" if
// err did not originate from the remote store.
func KindOf(err error) ErrorKind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// IsNotFound reports whether err is a remote not-found failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsUnauthorized reports whether err is a credential rejection.
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }
