package availability

import (
	"sync"
	"time"
)

// Store owns schedules and date overrides for the availability screens,
// independently of the calendar session. All mutation goes through actions;
// returned slices are copies.
type Store struct {
	mu        sync.Mutex
	schedules []Schedule
	overrides []DateOverride
}

// NewStore builds an empty availability store.
func NewStore() *Store {
	return &Store{}
}

// AddSchedule inserts a schedule. The first schedule in the collection
// becomes the default automatically.
func (s *Store) AddSchedule(sc Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.schedules) == 0 {
		sc.Default = true
	} else if sc.Default {
		for i := range s.schedules {
			s.schedules[i].Default = false
		}
	}
	s.schedules = append(s.schedules, sc)
}

// UpdateSchedule replaces a schedule by id. Default flags are managed by
// SetDefault, so the stored flag wins over the incoming one.
func (s *Store) UpdateSchedule(sc Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.schedules {
		if s.schedules[i].ID == sc.ID {
			sc.Default = s.schedules[i].Default
			s.schedules[i] = sc
			return nil
		}
	}
	return ErrScheduleNotFound
}

// RemoveSchedule deletes a schedule. When the default is removed, the first
// remaining schedule inherits the flag so exactly one default survives.
func (s *Store) RemoveSchedule(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.schedules {
		if s.schedules[i].ID != id {
			continue
		}
		wasDefault := s.schedules[i].Default
		s.schedules = append(s.schedules[:i], s.schedules[i+1:]...)
		if wasDefault && len(s.schedules) > 0 {
			s.schedules[0].Default = true
		}
		return nil
	}
	return ErrScheduleNotFound
}

// SetDefault marks the schedule as default and atomically unsets all
// others: at any observable moment exactly one schedule is default.
func (s *Store) SetDefault(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		return ErrScheduleNotFound
	}
	for i := range s.schedules {
		s.schedules[i].Default = s.schedules[i].ID == id
	}
	return nil
}

// Schedules returns a copy of the collection.
func (s *Store) Schedules() []Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Schedule(nil), s.schedules...)
}

// DefaultSchedule returns the default schedule, if any exist.
func (s *Store) DefaultSchedule() (Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.schedules {
		if sc.Default {
			return sc, true
		}
	}
	return Schedule{}, false
}

// AddOverride inserts a date override.
func (s *Store) AddOverride(o DateOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = append(s.overrides, o)
}

// RemoveOverride deletes an override by id.
func (s *Store) RemoveOverride(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.overrides {
		if s.overrides[i].ID == id {
			s.overrides = append(s.overrides[:i], s.overrides[i+1:]...)
			return nil
		}
	}
	return ErrOverrideNotFound
}

// OverridesFor returns the overrides applying to a concrete date.
func (s *Store) OverridesFor(date time.Time) []DateOverride {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []DateOverride
	for _, o := range s.overrides {
		if o.Covers(date) {
			out = append(out, o)
		}
	}
	return out
}

// SlotsFor returns the default schedule's slots covering a weekday, in
// insertion order. Overlapping slots come back as-is; merging them is a
// display decision this store never makes.
func (s *Store) SlotsFor(day time.Weekday) []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Slot
	for _, sc := range s.schedules {
		if !sc.Default {
			continue
		}
		for _, slot := range sc.Slots {
			if slot.AppliesTo(day) {
				out = append(out, slot)
			}
		}
	}
	return out
}
