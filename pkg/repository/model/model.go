package model

import (
	"context"
	"time"
)

// EventRecord is the wire shape of a calendar event as delivered by the
// persistence layer. Instants travel as ISO-8601 strings; the domain layer
// parses them in the viewer's local zone.
type EventRecord struct {
	ID          string  `json:"id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	EventType   string  `json:"event_type" validate:"required"`
	Status      string  `json:"status"`
	CreatedBy   string  `json:"created_by"`
	PatientID   *string `json:"patient_id,omitempty"`
}

// EventInput is the outbound payload for creating or replacing an event.
type EventInput struct {
	Title       string
	Description string
	Color       string
	StartTime   time.Time
	EndTime     time.Time
	EventType   string
	Status      string
	PatientID   *string
	ProviderID  *string
}

// SlotRecord is one recurring weekly availability window.
type SlotRecord struct {
	Weekdays []int // 0=Sunday
	StartMin int   // minutes from midnight
	EndMin   int
}

// ScheduleRecord aggregates a named set of weekly slots.
type ScheduleRecord struct {
	ID        string
	Name      string
	IsDefault bool
	TimeZone  string
	Slots     []SlotRecord
}

// OverrideRecord replaces weekly availability on specific dates.
type OverrideRecord struct {
	ID          string
	Dates       []time.Time // date component only
	Unavailable bool
	Slots       []SlotRecord
}

// Repo is the external persistence collaborator. Implementations must not
// be assumed to retry; the caller surfaces failures to the user.
type Repo interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]EventRecord, error)
	CreateEvent(ctx context.Context, in EventInput) (string, error)
	UpdateEvent(ctx context.Context, id string, in EventInput) error
	DeleteEvent(ctx context.Context, id string) error

	SaveSchedule(ctx context.Context, s ScheduleRecord) (string, error)
	ListSchedules(ctx context.Context) ([]ScheduleRecord, error)
	SaveOverride(ctx context.Context, o OverrideRecord) (string, error)
	DeleteOverride(ctx context.Context, id string) error
}
