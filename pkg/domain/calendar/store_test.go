package calendar

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC) // a Tuesday
}

func testEvent(id string, startHour int) Event {
	day := fixedNow()
	return Event{
		ID:      id,
		Title:   "visit " + id,
		Type:    TypeAppointment,
		Status:  StatusConfirmed,
		StartAt: time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, time.UTC),
		EndAt:   time.Date(day.Year(), day.Month(), day.Day(), startHour+1, 0, 0, 0, time.UTC),
	}
}

func TestStore_SetEventsReplaces(t *testing.T) {
	s := NewStore(fixedNow)
	s.SetEvents([]Event{testEvent("a", 9), testEvent("b", 10)})
	s.SetEvents([]Event{testEvent("c", 11)})

	events := s.Events()
	if len(events) != 1 || events[0].ID != "c" {
		t.Fatalf("expected full replace, got %+v", events)
	}
}

func TestStore_UpdateEventMissIsNoop(t *testing.T) {
	s := NewStore(fixedNow)
	s.SetEvents([]Event{testEvent("a", 9)})

	s.UpdateEvent(testEvent("ghost", 10))
	if events := s.Events(); len(events) != 1 || events[0].ID != "a" {
		t.Fatalf("update miss must not create, got %+v", events)
	}
}

func TestStore_UpdateEventReplacesByID(t *testing.T) {
	s := NewStore(fixedNow)
	s.SetEvents([]Event{testEvent("a", 9)})

	ev := testEvent("a", 9)
	ev.Title = "renamed"
	s.UpdateEvent(ev)

	if got := s.Events()[0].Title; got != "renamed" {
		t.Fatalf("expected replaced title, got %q", got)
	}
}

func TestStore_DeleteEvent(t *testing.T) {
	s := NewStore(fixedNow)
	s.SetEvents([]Event{testEvent("a", 9), testEvent("b", 10)})

	removed, ok := s.DeleteEvent("a")
	if !ok || removed.ID != "a" {
		t.Fatalf("expected to remove a, got %v ok=%v", removed.ID, ok)
	}
	if _, ok := s.DeleteEvent("a"); ok {
		t.Fatalf("second delete of the same id must miss")
	}
	if len(s.Events()) != 1 {
		t.Fatalf("expected 1 event left")
	}
}

func TestStore_DraftDisjointFromEvents(t *testing.T) {
	s := NewStore(fixedNow)
	s.SetEvents([]Event{testEvent("a", 9)})
	s.SetDraft(&Draft{StartAt: fixedNow(), EndAt: fixedNow().Add(time.Hour), Dragging: true})

	if len(s.Events()) != 1 {
		t.Fatalf("draft must never be counted among events")
	}
	if _, ok := s.Draft(); !ok {
		t.Fatalf("expected a draft")
	}

	s.ClearDraft()
	if _, ok := s.Draft(); ok {
		t.Fatalf("expected draft cleared")
	}
}

func TestStore_UpdateDraftEndWithoutDraft(t *testing.T) {
	s := NewStore(fixedNow)
	s.UpdateDraftEnd(fixedNow()) // must not panic, must not create
	if _, ok := s.Draft(); ok {
		t.Fatalf("update without draft must be a no-op")
	}
}

func TestStore_UpdateDraftEnd(t *testing.T) {
	s := NewStore(fixedNow)
	s.SetDraft(&Draft{StartAt: fixedNow(), EndAt: fixedNow().Add(15 * time.Minute)})

	end := fixedNow().Add(time.Hour)
	s.UpdateDraftEnd(end)

	d, _ := s.Draft()
	if !d.EndAt.Equal(end) {
		t.Fatalf("expected end %v, got %v", end, d.EndAt)
	}
}

func TestStore_NavigationAmounts(t *testing.T) {
	s := NewStore(fixedNow)

	s.SetView(ViewDay)
	from, _ := s.VisibleRange()
	s.NavigateNext()
	next, _ := s.VisibleRange()
	if got := next.Sub(from); got != 24*time.Hour {
		t.Fatalf("day view must advance 1 day, got %v", got)
	}

	s.SetView(ViewWeek)
	from, _ = s.VisibleRange()
	s.NavigateNext()
	next, _ = s.VisibleRange()
	if got := next.Sub(from); got != 7*24*time.Hour {
		t.Fatalf("week view must advance 7 days, got %v", got)
	}

	s.NavigatePrevious()
	back, _ := s.VisibleRange()
	if !back.Equal(from) {
		t.Fatalf("previous must return to %v, got %v", from, back)
	}
}

func TestStore_WeekStartsMonday(t *testing.T) {
	s := NewStore(fixedNow) // Tuesday 2025-03-04
	from, to := s.VisibleRange()

	if from.Weekday() != time.Monday {
		t.Fatalf("expected week to start Monday, got %v", from.Weekday())
	}
	if from.Day() != 3 {
		t.Fatalf("expected 2025-03-03, got %v", from)
	}
	if got := to.Sub(from); got != 7*24*time.Hour {
		t.Fatalf("expected a 7-day range, got %v", got)
	}
	if len(s.Days()) != 7 {
		t.Fatalf("expected 7 day columns")
	}
}

func TestStore_NavigateToday(t *testing.T) {
	s := NewStore(fixedNow)
	s.SetView(ViewDay)
	for i := 0; i < 5; i++ {
		s.NavigateNext()
	}
	s.NavigateToday()

	from, _ := s.VisibleRange()
	if from.Day() != 4 {
		t.Fatalf("expected back on 2025-03-04, got %v", from)
	}
}

func TestStore_SetViewRejectsUnknown(t *testing.T) {
	s := NewStore(fixedNow)
	s.SetView(View("month"))
	if got := s.View(); got != ViewWeek {
		t.Fatalf("unknown view must be ignored, got %v", got)
	}
}
