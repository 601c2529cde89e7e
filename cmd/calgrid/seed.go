package main

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/calgrid/pkg/repository/model"
)

// seedRepo is the -demo backend: an in-memory model.Repo pre-filled with a
// few events around the given day.
type seedRepo struct {
	mu        sync.Mutex
	events    map[string]model.EventRecord
	schedules map[string]model.ScheduleRecord
	overrides map[string]model.OverrideRecord
}

func newSeedRepo(day time.Time) *seedRepo {
	r := &seedRepo{
		events:    make(map[string]model.EventRecord),
		schedules: make(map[string]model.ScheduleRecord),
		overrides: make(map[string]model.OverrideRecord),
	}

	at := func(h, m int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location())
	}
	seed := []struct {
		title    string
		from, to time.Time
		kind     string
	}{
		{"Intake: R. Alvarez", at(9, 0), at(9, 30), "appointment"},
		{"Follow-up: K. Osei", at(10, 0), at(11, 0), "appointment"},
		{"Lunch", at(12, 30), at(13, 30), "block"},
		{"Review: M. Tanaka", at(10, 30), at(11, 15), "appointment"},
	}
	for _, s := range seed {
		id := uuid.NewString()
		r.events[id] = model.EventRecord{
			ID:        id,
			Title:     s.title,
			StartTime: s.from.Format(time.RFC3339),
			EndTime:   s.to.Format(time.RFC3339),
			EventType: s.kind,
			Status:    "confirmed",
			CreatedBy: "demo",
		}
	}
	return r
}

func (r *seedRepo) ListEvents(_ context.Context, from, to time.Time) ([]model.EventRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.EventRecord
	for _, rec := range r.events {
		start, err := time.Parse(time.RFC3339, rec.StartTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, rec.EndTime)
		if err != nil {
			continue
		}
		if start.Before(to) && end.After(from) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *seedRepo) CreateEvent(_ context.Context, in model.EventInput) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.events[id] = recordFromInput(id, in)
	return id, nil
}

func (r *seedRepo) UpdateEvent(_ context.Context, id string, in model.EventInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return nil
	}
	r.events[id] = recordFromInput(id, in)
	return nil
}

func (r *seedRepo) DeleteEvent(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

func (r *seedRepo) SaveSchedule(_ context.Context, s model.ScheduleRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	r.schedules[s.ID] = s
	return s.ID, nil
}

func (r *seedRepo) ListSchedules(_ context.Context) ([]model.ScheduleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ScheduleRecord, 0, len(r.schedules))
	for _, s := range r.schedules {
		out = append(out, s)
	}
	return out, nil
}

func (r *seedRepo) SaveOverride(_ context.Context, o model.OverrideRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	r.overrides[o.ID] = o
	return o.ID, nil
}

func (r *seedRepo) DeleteOverride(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overrides, id)
	return nil
}

func recordFromInput(id string, in model.EventInput) model.EventRecord {
	return model.EventRecord{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		StartTime:   in.StartTime.Format(time.RFC3339),
		EndTime:     in.EndTime.Format(time.RFC3339),
		EventType:   in.EventType,
		Status:      in.Status,
		CreatedBy:   "demo",
		PatientID:   in.PatientID,
	}
}
