package calendar

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicboard/calgrid/pkg/repository/model"
)

// EventType classifies what an event blocks the grid for.
type EventType string

const (
	TypeAppointment EventType = "appointment"
	TypeBlock       EventType = "block"
)

// Status is the booking lifecycle state. Display-relevant only; the grid
// never branches on it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Event is a committed calendar event. IDs are opaque; client-created
// events carry a provisional uuid until the persistence collaborator
// acknowledges with a server-issued one.
type Event struct {
	ID          string
	Title       string
	Description string
	Color       string
	Type        EventType
	Status      Status
	CreatedBy   string
	PatientID   string
	StartAt     time.Time
	EndAt       time.Time
}

func (e Event) Start() time.Time { return e.StartAt }
func (e Event) End() time.Time   { return e.EndAt }

// NewProvisionalID returns a client-side id for an event that has not been
// persisted yet.
func NewProvisionalID() string {
	return "draft-" + uuid.NewString()
}

// Draft is the single ephemeral interval representing an in-progress
// gesture. It has no identity and is never part of the committed set.
type Draft struct {
	StartAt  time.Time
	EndAt    time.Time
	Dragging bool
}

func (d Draft) Start() time.Time { return d.StartAt }
func (d Draft) End() time.Time   { return d.EndAt }

var validate = validator.New()

// DecodeRecords converts wire records into Events. Instants are parsed with
// the viewer's local zone as the source of truth for wall-clock placement.
// Records with missing required fields or unparseable instants are dropped
// with a log line; a bad entity never aborts the batch.
func DecodeRecords(recs []model.EventRecord, logger zerolog.Logger) []Event {
	events := make([]Event, 0, len(recs))

	for _, rec := range recs {
		ev, err := decodeRecord(rec)
		if err != nil {
			logger.Warn().Err(err).Str("id", rec.ID).Msg("dropping malformed event record")
			continue
		}
		events = append(events, ev)
	}

	return events
}

func decodeRecord(rec model.EventRecord) (Event, error) {
	if err := validate.Struct(rec); err != nil {
		return Event{}, err
	}

	start, err := parseInstant(rec.StartTime)
	if err != nil {
		return Event{}, err
	}
	end, err := parseInstant(rec.EndTime)
	if err != nil {
		return Event{}, err
	}

	ev := Event{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Color:       rec.Color,
		Type:        EventType(rec.EventType),
		Status:      Status(rec.Status),
		CreatedBy:   rec.CreatedBy,
		StartAt:     start,
		EndAt:       end,
	}
	if rec.PatientID != nil {
		ev.PatientID = *rec.PatientID
	}
	if ev.Status == "" {
		ev.Status = StatusPending
	}
	return ev, nil
}

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(time.Local), nil
}
