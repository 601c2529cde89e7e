package calendar

import (
	"sync"
	"time"
)

// View is the visible date span of the calendar.
type View string

const (
	ViewDay  View = "day"
	ViewWeek View = "week"
)

// Store is the authoritative in-memory state of one calendar session:
// current view, visible date, the committed event collection and the single
// in-flight draft. It is mutated only through its action methods; returned
// collections are copies, so callers cannot bypass the actions.
//
// Construct one per calendar session and pass it to the grid components;
// there is no package-level singleton.
type Store struct {
	mu     sync.Mutex
	view   View
	cursor time.Time // any instant inside the visible range
	events []Event
	draft  *Draft
	now    func() time.Time
}

// NewStore builds a store positioned on today in week view. now is
// injectable for tests; nil means time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		view:   ViewWeek,
		cursor: now(),
		now:    now,
	}
}

// SetEvents replaces the whole committed collection, used after a
// successful fetch for the active visible range.
func (s *Store) SetEvents(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]Event(nil), events...)
}

// AddEvent appends a committed event.
func (s *Store) AddEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// UpdateEvent replaces the event with the same id. A miss is a no-op;
// callers must not assume creation-on-miss.
func (s *Store) UpdateEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == ev.ID {
			s.events[i] = ev
			return
		}
	}
}

// DeleteEvent removes the event by id. A miss is a no-op. The removed event
// is returned so optimistic deletes can be reverted.
func (s *Store) DeleteEvent(id string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			ev := s.events[i]
			s.events = append(s.events[:i], s.events[i+1:]...)
			return ev, true
		}
	}
	return Event{}, false
}

// Events returns a copy of the committed collection. The draft is never
// part of it.
func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// SetDraft replaces the draft. Setting a new draft implicitly discards any
// previous one; nil clears it.
func (s *Store) SetDraft(d *Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d == nil {
		s.draft = nil
		return
	}
	cp := *d
	s.draft = &cp
}

// UpdateDraftEnd moves the draft's end. No-op when no draft exists.
func (s *Store) UpdateDraftEnd(end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return
	}
	s.draft.EndAt = end
}

// ClearDraft discards the draft.
func (s *Store) ClearDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

// Draft returns a copy of the current draft, if one exists.
func (s *Store) Draft() (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return Draft{}, false
	}
	return *s.draft, true
}

// View returns the current view.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetView switches between day and week view, keeping the cursor date.
func (s *Store) SetView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v != ViewDay && v != ViewWeek {
		return
	}
	s.view = v
}

// NavigateNext advances the visible range: one day in day view, seven in
// week view.
func (s *Store) NavigateNext() {
	s.shift(1)
}

// NavigatePrevious moves the visible range back.
func (s *Store) NavigatePrevious() {
	s.shift(-1)
}

func (s *Store) shift(sign int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := 1
	if s.view == ViewWeek {
		days = 7
	}
	s.cursor = s.cursor.AddDate(0, 0, sign*days)
}

// NavigateToday repositions the visible range on the current date.
func (s *Store) NavigateToday() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = s.now()
}

// VisibleRange returns the half-open [from, to) span the grid shows: the
// cursor's day in day view, its Monday-based week in week view.
func (s *Store) VisibleRange() (time.Time, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := startOfDay(s.cursor)
	if s.view == ViewDay {
		return day, day.AddDate(0, 0, 1)
	}

	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week
	}
	monday := day.AddDate(0, 0, 1-weekday)
	return monday, monday.AddDate(0, 0, 7)
}

// Days returns the visible days in column order.
func (s *Store) Days() []time.Time {
	from, to := s.VisibleRange()
	var days []time.Time
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
