package calendar

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicboard/calgrid/pkg/repository/model"
)

func validRecord(id string) model.EventRecord {
	return model.EventRecord{
		ID:        id,
		Title:     "Checkup",
		StartTime: "2025-03-04T09:00:00Z",
		EndTime:   "2025-03-04T09:30:00Z",
		EventType: "appointment",
		Status:    "confirmed",
		CreatedBy: "dr-1",
	}
}

func TestDecodeRecords_Valid(t *testing.T) {
	events := DecodeRecords([]model.EventRecord{validRecord("e1")}, zerolog.Nop())
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	ev := events[0]
	if ev.ID != "e1" || ev.Type != TypeAppointment || ev.Status != StatusConfirmed {
		t.Fatalf("unexpected event: %+v", ev)
	}
	want := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	if !ev.StartAt.Equal(want) {
		t.Fatalf("expected start %v, got %v", want, ev.StartAt)
	}
}

func TestDecodeRecords_LocalZone(t *testing.T) {
	events := DecodeRecords([]model.EventRecord{validRecord("e1")}, zerolog.Nop())
	if got := events[0].StartAt.Location(); got != time.Local {
		t.Fatalf("instants must be expressed in the viewer's local zone, got %v", got)
	}
}

func TestDecodeRecords_MalformedInstantDropped(t *testing.T) {
	bad := validRecord("bad")
	bad.StartTime = "tomorrow-ish"

	events := DecodeRecords([]model.EventRecord{validRecord("ok"), bad}, zerolog.Nop())
	if len(events) != 1 || events[0].ID != "ok" {
		t.Fatalf("malformed record must be dropped without aborting the batch, got %+v", events)
	}
}

func TestDecodeRecords_MissingFieldsDropped(t *testing.T) {
	noTitle := validRecord("nt")
	noTitle.Title = ""
	noEnd := validRecord("ne")
	noEnd.EndTime = ""

	events := DecodeRecords([]model.EventRecord{noTitle, noEnd, validRecord("ok")}, zerolog.Nop())
	if len(events) != 1 || events[0].ID != "ok" {
		t.Fatalf("records missing required fields must be dropped, got %+v", events)
	}
}

func TestDecodeRecords_DefaultsStatus(t *testing.T) {
	rec := validRecord("e1")
	rec.Status = ""
	events := DecodeRecords([]model.EventRecord{rec}, zerolog.Nop())
	if events[0].Status != StatusPending {
		t.Fatalf("expected pending default, got %v", events[0].Status)
	}
}

func TestDecodeRecords_PatientID(t *testing.T) {
	pid := "p-42"
	rec := validRecord("e1")
	rec.PatientID = &pid

	events := DecodeRecords([]model.EventRecord{rec}, zerolog.Nop())
	if events[0].PatientID != "p-42" {
		t.Fatalf("expected patient id carried over, got %q", events[0].PatientID)
	}
}

func TestNewProvisionalID_Unique(t *testing.T) {
	a, b := NewProvisionalID(), NewProvisionalID()
	if a == b {
		t.Fatalf("provisional ids must be unique")
	}
}
