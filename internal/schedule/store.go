// Package schedule owns the canonical client-side copy of the planner
// collection. The Store reconciles remote state into it (push
// snapshots or fetch-after-mutation), applies local mutations
// optimistically with rollback, and notifies subscribers; projections
// derive the calendar and notes views from its snapshots.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/e-Diag/CalendarBot/internal/model"
	"github.com/e-Diag/CalendarBot/internal/remote"
)

// RemoteClient is the CRUD contract the store consumes. One call is
// one network round trip; the implementation owns transport timeouts.
type RemoteClient interface {
	List(ctx context.Context, s model.Session) ([]model.Item, error)
	Create(ctx context.Context, s model.Session, draft model.Item) (model.Item, error)
	Update(ctx context.Context, s model.Session, id string, it model.Item) (model.Item, error)
	Delete(ctx context.Context, s model.Session, id string) error
}

// LiveSource opens the push feed of full-collection snapshots. The
// returned function unsubscribes and must be idempotent.
type LiveSource interface {
	Subscribe(
		ctx context.Context,
		s model.Session,
		onSnapshot func([]model.Item),
		onError func(error),
	) (func(), error)
}

// SnapshotCache persists the last reconciled collection so a degraded
// start can serve stale data.
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, items []model.Item) error
	LoadSnapshot(ctx context.Context) ([]model.Item, error)
}

// Listener receives the full collection snapshot after every change.
// Listeners run synchronously inside the store and must not call back
// into it; hand the snapshot off (e.g. onto a channel) and return.
type Listener func(items []model.Item)

// Options configures optional Store collaborators.
type Options struct {
	// Live enables the push strategy. Required when Strategy is
	// model.SyncStrategyLive.
	Live LiveSource

	// Cache, when set, persists snapshots for stale-data fallback.
	Cache SnapshotCache

	// Strategy is model.SyncStrategyLive or model.SyncStrategyPoll.
	// Defaults to live when a LiveSource is given, poll otherwise.
	Strategy string

	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

// Store holds the authoritative local copy of the item collection and
// keeps it synchronized with the remote source of truth.
type Store struct {
	client   RemoteClient
	live     LiveSource
	cache    SnapshotCache
	strategy string
	now      func() time.Time

	mu             sync.Mutex
	session        model.Session
	collection     map[string]model.Item
	state          SyncState
	pending        map[string]struct{}
	listeners      map[int]Listener
	nextListenerID int
	unsubscribe    func()

	// generation is bumped on Initialize and Close so completions of
	// calls issued against an earlier binding are ignored.
	generation int
}

// New creates a Store over the given remote client.
func New(client RemoteClient, opts Options) *Store {
	strategy := opts.Strategy
	if strategy == "" {
		strategy = model.SyncStrategyPoll
		if opts.Live != nil {
			strategy = model.SyncStrategyLive
		}
	}

	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	return &Store{
		client:     client,
		live:       opts.Live,
		cache:      opts.Cache,
		strategy:   strategy,
		now:        nowFn,
		collection: make(map[string]model.Item),
		state:      SyncInitializing,
		pending:    make(map[string]struct{}),
		listeners:  make(map[int]Listener),
	}
}

// Initialize binds the store to the remote source for the given
// session. Under the live strategy it subscribes to the snapshot feed;
// under the poll strategy it fetches the collection once. On failure
// the store enters SyncDegraded, falls back to the cached snapshot if
// one exists, and stays usable read-only. Re-initializing with a new
// session releases the previous subscription.
func (s *Store) Initialize(ctx context.Context, session model.Session) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.session = session
	s.state = SyncInitializing
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}

	if s.strategy == model.SyncStrategyLive {
		return s.initializeLive(ctx, gen, session)
	}
	return s.initializePoll(ctx, gen, session)
}

// initializeLive subscribes to the push feed. The store stays in
// SyncInitializing until the first snapshot arrives.
func (s *Store) initializeLive(ctx context.Context, gen int, session model.Session) error {
	if s.live == nil {
		return fmt.Errorf("live strategy configured without a live source")
	}

	unsub, err := s.live.Subscribe(ctx, session,
		func(items []model.Item) { s.applySnapshot(gen, items) },
		func(err error) { s.degrade(gen) },
	)
	if err != nil {
		s.degrade(gen)
		s.loadCached(ctx, gen)
		return fmt.Errorf("subscribing to live feed: %w", err)
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		unsub()
		return nil
	}
	s.unsubscribe = unsub
	s.mu.Unlock()
	return nil
}

// initializePoll fetches the collection once; later mutations refetch.
func (s *Store) initializePoll(ctx context.Context, gen int, session model.Session) error {
	items, err := s.client.List(ctx, session)
	if err != nil {
		s.degrade(gen)
		s.loadCached(ctx, gen)
		return fmt.Errorf("fetching items: %w", err)
	}
	s.applySnapshot(gen, items)
	return nil
}

// Close releases the live subscription and invalidates in-flight
// completions. The store may be re-initialized afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	s.generation++
	s.state = SyncInitializing
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Subscribe registers a listener invoked with the full collection
// snapshot whenever it changes. The listener is also invoked once
// immediately with the current snapshot. The returned unsubscribe
// function is idempotent.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = fn
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	fn(snapshot)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the current collection in no particular
// order; consumers sort via projections.
func (s *Store) Snapshot() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// State returns the current sync state.
func (s *Store) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Create validates and persists a draft. The item enters the
// collection only once the server has assigned its id, so a draft
// never coexists with its persisted form.
func (s *Store) Create(ctx context.Context, draft model.Item) (model.Item, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return model.Item{}, err
	}

	s.mu.Lock()
	gen := s.generation
	session := s.session
	s.mu.Unlock()

	created, err := s.client.Create(ctx, session, draft)
	if err != nil {
		return model.Item{}, fmt.Errorf("creating item: %w", err)
	}

	s.mu.Lock()
	if gen != s.generation {
		// Store was re-bound while the call was in flight; the result
		// is still returned but no longer belongs in the collection.
		s.mu.Unlock()
		return created, nil
	}
	if created.LastEdited.IsZero() {
		created.LastEdited = s.now().UTC()
	}
	s.reconcileEntryLocked(created)
	snapshot := s.snapshotLocked()
	s.notifyLocked(snapshot)
	s.mu.Unlock()

	s.saveCache(snapshot)
	s.refetch(ctx, gen)
	return created, nil
}

// Update merges the patch onto the stored item, stamps a fresh
// lastEdited, and persists it. The merged item is applied
// optimistically and rolled back to the last known-good state if the
// remote call fails. A second mutation on the same id while one is in
// flight is rejected with ErrBusy.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (model.Item, error) {
	if id == "" || id == model.DraftID {
		return model.Item{}, ErrNotFound
	}

	s.mu.Lock()
	gen := s.generation
	session := s.session

	existing, ok := s.collection[id]
	if !ok {
		s.mu.Unlock()
		return model.Item{}, ErrNotFound
	}
	if _, busy := s.pending[id]; busy {
		s.mu.Unlock()
		return model.Item{}, ErrBusy
	}

	prev := existing
	merged := existing
	patch.apply(&merged)
	merged.Normalize()
	if err := merged.Validate(); err != nil {
		s.mu.Unlock()
		return model.Item{}, err
	}
	merged.LastEdited = s.now().UTC()

	s.pending[id] = struct{}{}
	s.collection[id] = merged
	s.notifyLocked(s.snapshotLocked())
	s.mu.Unlock()

	updated, err := s.client.Update(ctx, session, id, merged)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		if err != nil {
			return model.Item{}, fmt.Errorf("updating item %s: %w", id, err)
		}
		return updated, nil
	}
	delete(s.pending, id)

	if err != nil {
		// Roll back the optimistic entry unless a snapshot already
		// replaced it while the call was in flight.
		if cur, ok := s.collection[id]; ok && cur.LastEdited.Equal(merged.LastEdited) {
			s.collection[id] = prev
		}
		s.notifyLocked(s.snapshotLocked())
		s.mu.Unlock()
		return model.Item{}, fmt.Errorf("updating item %s: %w", id, err)
	}

	s.reconcileEntryLocked(updated)
	snapshot := s.snapshotLocked()
	s.notifyLocked(snapshot)
	s.mu.Unlock()

	s.saveCache(snapshot)
	s.refetch(ctx, gen)
	return updated, nil
}

// Delete removes an item. Deleting the draft sentinel is a trivial
// success, a remote not-found is treated as success (the end state
// matches intent), and the entry leaves the collection only after
// remote confirmation.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" || id == model.DraftID {
		return nil
	}

	s.mu.Lock()
	gen := s.generation
	session := s.session
	if _, busy := s.pending[id]; busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.pending[id] = struct{}{}
	s.mu.Unlock()

	err := s.client.Delete(ctx, session, id)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return nil
	}
	delete(s.pending, id)

	if err != nil && !remote.IsNotFound(err) {
		s.mu.Unlock()
		return fmt.Errorf("deleting item %s: %w", id, err)
	}

	delete(s.collection, id)
	snapshot := s.snapshotLocked()
	s.notifyLocked(snapshot)
	s.mu.Unlock()

	s.saveCache(snapshot)
	s.refetch(ctx, gen)
	return nil
}

// applySnapshot replaces the collection with a remote snapshot. The
// optimistic entry of an in-flight mutation survives only while it is
// newer than the snapshot's copy of the same id: latest lastEdited
// wins per id.
func (s *Store) applySnapshot(gen int, items []model.Item) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}

	next := make(map[string]model.Item, len(items))
	for _, it := range items {
		next[it.ID] = it
	}

	for id := range s.pending {
		local, ok := s.collection[id]
		if !ok {
			continue
		}
		if snap, ok := next[id]; !ok || local.LastEdited.After(snap.LastEdited) {
			next[id] = local
		}
	}

	s.collection = next
	s.state = SyncReady
	snapshot := s.snapshotLocked()
	s.notifyLocked(snapshot)
	s.mu.Unlock()

	s.saveCache(snapshot)
}

// reconcileEntryLocked inserts a completed mutation's result unless a
// snapshot has already delivered a newer copy of the same id.
func (s *Store) reconcileEntryLocked(it model.Item) {
	if cur, ok := s.collection[it.ID]; ok && cur.LastEdited.After(it.LastEdited) {
		return
	}
	s.collection[it.ID] = it
}

// degrade marks the sync channel as broken. The collection is kept:
// stale data is preferable to no data.
func (s *Store) degrade(gen int) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.state = SyncDegraded
	s.notifyLocked(s.snapshotLocked())
	s.mu.Unlock()
}

// loadCached fills an empty collection from the snapshot cache after a
// failed initialization. The state stays SyncDegraded.
func (s *Store) loadCached(ctx context.Context, gen int) {
	if s.cache == nil {
		return
	}
	items, err := s.cache.LoadSnapshot(ctx)
	if err != nil || len(items) == 0 {
		return
	}

	s.mu.Lock()
	if gen != s.generation || len(s.collection) > 0 {
		s.mu.Unlock()
		return
	}
	for _, it := range items {
		s.collection[it.ID] = it
	}
	s.notifyLocked(s.snapshotLocked())
	s.mu.Unlock()
}

// refetch pulls the collection after a mutation under the poll
// strategy, since no push feed will deliver the new server state.
func (s *Store) refetch(ctx context.Context, gen int) {
	if s.strategy != model.SyncStrategyPoll {
		return
	}

	s.mu.Lock()
	session := s.session
	current := gen == s.generation
	s.mu.Unlock()
	if !current {
		return
	}

	items, err := s.client.List(ctx, session)
	if err != nil {
		s.degrade(gen)
		return
	}
	s.applySnapshot(gen, items)
}

// saveCache persists a snapshot best-effort; cache failures never
// affect the canonical state.
func (s *Store) saveCache(items []model.Item) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.cache.SaveSnapshot(ctx, items)
}

// snapshotLocked copies the collection into a fresh slice.
func (s *Store) snapshotLocked() []model.Item {
	items := make([]model.Item, 0, len(s.collection))
	for _, it := range s.collection {
		items = append(items, it)
	}
	return items
}

// notifyLocked delivers a snapshot to every listener in turn.
// Notifications go out in the order reconciliation events complete.
func (s *Store) notifyLocked(snapshot []model.Item) {
	for _, fn := range s.listeners {
		fn(snapshot)
	}
}
