package schedule

import "errors"

// ErrNotFound is returned when a mutation targets an id that is not in
// the collection (or the draft sentinel, which has nothing to update).
var ErrNotFound = errors.New("item not found")

// ErrBusy is returned when a mutation targets an id that already has a
// mutation in flight. The chosen concurrency policy is rejection, not
// queueing: the caller retries once the first operation settles.
var ErrBusy = errors.New("item has a change in flight")

// SyncState describes the store's relationship with the remote source.
type SyncState int

const (
	// SyncInitializing means no snapshot or fetch has succeeded yet.
	SyncInitializing SyncState = iota

	// SyncReady means the collection reflects the remote source.
	SyncReady

	// SyncDegraded means the channel or a fetch failed; the collection
	// keeps serving the last known data.
	SyncDegraded
)

// String returns a short label for display.
func (s SyncState) String() string {
	switch s {
	case SyncInitializing:
		return "initializing"
	case SyncReady:
		return "live"
	case SyncDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}
