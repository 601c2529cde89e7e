package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicboard/calgrid/pkg/repository/model"
)

const defaultUndoGrace = 5 * time.Second

// UndoBuffer implements optimistic deletes: the event leaves the store
// immediately, but the repository delete is deferred for a grace window
// during which Undo can re-insert it. Timers never outlive the buffer;
// Close flushes whatever is still pending.
type UndoBuffer struct {
	mu      sync.Mutex
	repo    model.Repo
	store   *Store
	grace   time.Duration
	pending map[string]*pendingDelete
	closed  bool
	logger  zerolog.Logger
}

type pendingDelete struct {
	event Event
	timer *time.Timer
}

// NewUndoBuffer builds a buffer with the given grace window; zero means the
// default.
func NewUndoBuffer(repo model.Repo, store *Store, grace time.Duration, logger zerolog.Logger) *UndoBuffer {
	if grace <= 0 {
		grace = defaultUndoGrace
	}
	return &UndoBuffer{
		repo:    repo,
		store:   store,
		grace:   grace,
		pending: make(map[string]*pendingDelete),
		logger:  logger,
	}
}

// Delete removes the event from the store and parks it. Returns false when
// the id is unknown to the store.
func (u *UndoBuffer) Delete(id string) bool {
	ev, ok := u.store.DeleteEvent(id)
	if !ok {
		return false
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		// Buffer is shutting down; delete straight away.
		go u.flush(ev)
		return true
	}

	// A repeated delete of the same id restarts the window.
	if prev, exists := u.pending[id]; exists {
		prev.timer.Stop()
	}
	pd := &pendingDelete{event: ev}
	pd.timer = time.AfterFunc(u.grace, func() { u.expire(id) })
	u.pending[id] = pd
	return true
}

// Undo re-inserts a parked event and cancels its repository delete. Returns
// false once the grace window has expired.
func (u *UndoBuffer) Undo(id string) bool {
	u.mu.Lock()
	pd, ok := u.pending[id]
	if ok {
		pd.timer.Stop()
		delete(u.pending, id)
	}
	u.mu.Unlock()

	if !ok {
		return false
	}
	u.store.AddEvent(pd.event)
	return true
}

func (u *UndoBuffer) expire(id string) {
	u.mu.Lock()
	pd, ok := u.pending[id]
	if ok {
		delete(u.pending, id)
	}
	u.mu.Unlock()

	if !ok {
		return // undone in the meantime
	}
	u.flush(pd.event)
}

// flush performs the real delete. A failed delete is reversed through the
// same path the user's undo would take.
func (u *UndoBuffer) flush(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := u.repo.DeleteEvent(ctx, ev.ID); err != nil {
		u.logger.Warn().Err(err).Str("id", ev.ID).Msg("delete failed, restoring event")
		u.store.AddEvent(ev)
	}
}

// Close stops all timers and flushes pending deletes synchronously.
func (u *UndoBuffer) Close() {
	u.mu.Lock()
	u.closed = true
	var leftover []Event
	for id, pd := range u.pending {
		pd.timer.Stop()
		leftover = append(leftover, pd.event)
		delete(u.pending, id)
	}
	u.mu.Unlock()

	for _, ev := range leftover {
		u.flush(ev)
	}
}
