package availability

import (
	"errors"
	"testing"
	"time"
)

func countDefaults(store *Store) int {
	n := 0
	for _, sc := range store.Schedules() {
		if sc.Default {
			n++
		}
	}
	return n
}

func TestStore_FirstScheduleBecomesDefault(t *testing.T) {
	s := NewStore()
	s.AddSchedule(NewSchedule("Working hours", "UTC", nil))

	def, ok := s.DefaultSchedule()
	if !ok || def.Name != "Working hours" {
		t.Fatalf("first schedule must become default, got %+v ok=%v", def, ok)
	}
}

func TestStore_SetDefaultExactlyOne(t *testing.T) {
	s := NewStore()
	a := NewSchedule("a", "UTC", nil)
	b := NewSchedule("b", "UTC", nil)
	c := NewSchedule("c", "UTC", nil)
	s.AddSchedule(a)
	s.AddSchedule(b)
	s.AddSchedule(c)

	for _, id := range []string{c.ID, a.ID, b.ID} {
		if err := s.SetDefault(id); err != nil {
			t.Fatalf("SetDefault(%q): %v", id, err)
		}
		if n := countDefaults(s); n != 1 {
			t.Fatalf("expected exactly one default after SetDefault, got %d", n)
		}
		def, _ := s.DefaultSchedule()
		if def.ID != id {
			t.Fatalf("expected %q default, got %q", id, def.ID)
		}
	}
}

func TestStore_SetDefaultUnknown(t *testing.T) {
	s := NewStore()
	s.AddSchedule(NewSchedule("a", "UTC", nil))

	if err := s.SetDefault("ghost"); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
	if n := countDefaults(s); n != 1 {
		t.Fatalf("a failed SetDefault must not disturb the flag, got %d defaults", n)
	}
}

func TestStore_RemoveDefaultReassigns(t *testing.T) {
	s := NewStore()
	a := NewSchedule("a", "UTC", nil)
	b := NewSchedule("b", "UTC", nil)
	s.AddSchedule(a)
	s.AddSchedule(b)

	if err := s.RemoveSchedule(a.ID); err != nil {
		t.Fatalf("RemoveSchedule: %v", err)
	}
	def, ok := s.DefaultSchedule()
	if !ok || def.ID != b.ID {
		t.Fatalf("removing the default must promote the next schedule, got %+v ok=%v", def, ok)
	}
	if n := countDefaults(s); n != 1 {
		t.Fatalf("expected exactly one default, got %d", n)
	}
}

func TestStore_UpdateKeepsStoredDefaultFlag(t *testing.T) {
	s := NewStore()
	a := NewSchedule("a", "UTC", nil)
	s.AddSchedule(a)

	edited := a
	edited.Name = "renamed"
	edited.Default = false // edit surfaces never toggle the flag
	if err := s.UpdateSchedule(edited); err != nil {
		t.Fatalf("UpdateSchedule: %v", err)
	}

	def, ok := s.DefaultSchedule()
	if !ok || def.Name != "renamed" {
		t.Fatalf("update must keep the stored default flag, got %+v ok=%v", def, ok)
	}
}

func TestStore_UpdateUnknown(t *testing.T) {
	s := NewStore()
	if err := s.UpdateSchedule(NewSchedule("ghost", "UTC", nil)); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestStore_SlotsForOverlappingNotMerged(t *testing.T) {
	s := NewStore()
	morning := mustSlot(t, 540, 780, time.Monday)  // 09:00-13:00
	midday := mustSlot(t, 720, 1020, time.Monday)  // 12:00-17:00, overlaps
	evening := mustSlot(t, 1080, 1200, time.Friday)
	s.AddSchedule(NewSchedule("a", "UTC", []Slot{morning, midday, evening}))

	got := s.SlotsFor(time.Monday)
	if len(got) != 2 {
		t.Fatalf("expected both overlapping slots untouched, got %d", len(got))
	}
	if got[0].StartMin != 540 || got[1].StartMin != 720 {
		t.Fatalf("expected insertion order, got %+v", got)
	}
	if len(s.SlotsFor(time.Friday)) != 1 {
		t.Fatalf("expected the friday slot alone")
	}
	if len(s.SlotsFor(time.Sunday)) != 0 {
		t.Fatalf("expected no sunday slots")
	}
}

func TestStore_SlotsForUsesDefaultScheduleOnly(t *testing.T) {
	s := NewStore()
	a := NewSchedule("a", "UTC", []Slot{mustSlot(t, 540, 720, time.Monday)})
	b := NewSchedule("b", "UTC", []Slot{mustSlot(t, 840, 1020, time.Monday)})
	s.AddSchedule(a)
	s.AddSchedule(b)

	if got := s.SlotsFor(time.Monday); len(got) != 1 || got[0].StartMin != 540 {
		t.Fatalf("expected only the default schedule's slots, got %+v", got)
	}

	if err := s.SetDefault(b.ID); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if got := s.SlotsFor(time.Monday); len(got) != 1 || got[0].StartMin != 840 {
		t.Fatalf("expected the new default's slots, got %+v", got)
	}
}

func TestStore_Overrides(t *testing.T) {
	s := NewStore()
	o, err := NewDateOverride(
		[]time.Time{time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)},
		false, []Window{{StartMin: 600, EndMin: 720}},
	)
	if err != nil {
		t.Fatalf("NewDateOverride: %v", err)
	}
	s.AddOverride(o)

	if got := s.OverridesFor(time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)); len(got) != 1 {
		t.Fatalf("expected one override for the covered date, got %d", len(got))
	}
	if got := s.OverridesFor(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)); len(got) != 0 {
		t.Fatalf("expected no overrides for other dates, got %d", len(got))
	}

	if err := s.RemoveOverride(o.ID); err != nil {
		t.Fatalf("RemoveOverride: %v", err)
	}
	if err := s.RemoveOverride(o.ID); !errors.Is(err, ErrOverrideNotFound) {
		t.Fatalf("expected ErrOverrideNotFound on the second remove, got %v", err)
	}
}
