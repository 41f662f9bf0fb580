package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/e-Diag/CalendarBot/internal/model"
	"github.com/e-Diag/CalendarBot/internal/schedule"
)

// SnapshotMsg carries a fresh collection snapshot and the sync state
// into the Bubble Tea runtime.
type SnapshotMsg struct {
	Items []model.Item
	State schedule.SyncState
}

// bridge adapts the store's synchronous listener callback to Bubble
// Tea's message loop. The listener must return immediately, so it
// hands snapshots to a coalescing channel: when the UI lags, older
// undelivered snapshots are replaced rather than queued, and the view
// always catches up to the latest state.
type bridge struct {
	store      *schedule.Store
	snapshotCh chan []model.Item
	unsub      func()
}

func newBridge(s *schedule.Store) *bridge {
	return &bridge{
		store:      s,
		snapshotCh: make(chan []model.Item, 1),
	}
}

// Start subscribes to the store and returns the command that waits for
// the first snapshot.
func (b *bridge) Start() tea.Cmd {
	b.unsub = b.store.Subscribe(func(items []model.Item) {
		for {
			select {
			case b.snapshotCh <- items:
				return
			default:
			}
			select {
			case <-b.snapshotCh:
			default:
			}
		}
	})
	return b.waitForSnapshot()
}

// Stop releases the store subscription.
func (b *bridge) Stop() {
	if b.unsub != nil {
		b.unsub()
	}
}

// waitForSnapshot returns a tea.Cmd that blocks until the next
// snapshot. After handling a SnapshotMsg, call it again to keep
// listening.
func (b *bridge) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		items, ok := <-b.snapshotCh
		if !ok {
			return nil
		}
		return SnapshotMsg{Items: items, State: b.store.State()}
	}
}
