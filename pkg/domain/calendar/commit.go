package calendar

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clinicboard/calgrid/pkg/repository/model"
	"github.com/clinicboard/calgrid/pkg/utils/errs"
)

// EventInput is what the edit surface supplies on top of the draft's time
// range when committing.
type EventInput struct {
	Title       string
	Description string
	Color       string
	Type        EventType
	Status      Status
	CreatedBy   string
	PatientID   string
	ProviderID  string
}

// Committer hands finished drafts and edits to the persistence
// collaborator. The committed collection is only mutated after the
// collaborator acknowledges; on failure the draft stays in place so the
// user can retry or abandon. Nothing here retries on its own.
type Committer struct {
	repo   model.Repo
	store  *Store
	logger zerolog.Logger
}

// NewCommitter wires a committer to its store and repository.
func NewCommitter(repo model.Repo, store *Store, logger zerolog.Logger) *Committer {
	return &Committer{repo: repo, store: store, logger: logger}
}

// CommitDraft persists the store's settled draft as a new event. The draft
// is read at call time, never from a snapshot captured earlier, so the last
// pointer-move is always included.
func (c *Committer) CommitDraft(ctx context.Context, in EventInput) (Event, error) {
	draft, ok := c.store.Draft()
	if !ok {
		return Event{}, errs.New("no draft to commit")
	}

	if in.Type == "" {
		in.Type = TypeAppointment
	}
	if in.Status == "" {
		in.Status = StatusPending
	}

	id, err := c.repo.CreateEvent(ctx, eventInputRecord(in, draft))
	if err != nil {
		c.logger.Warn().Err(err).Msg("create event rejected, keeping draft")
		return Event{}, errs.New("create event").Wrap(err)
	}

	ev := Event{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		Type:        in.Type,
		Status:      in.Status,
		CreatedBy:   in.CreatedBy,
		PatientID:   in.PatientID,
		StartAt:     draft.StartAt,
		EndAt:       draft.EndAt,
	}
	c.store.AddEvent(ev)
	c.store.ClearDraft()

	c.logger.Info().Str("id", id).Time("start", ev.StartAt).Msg("event committed")
	return ev, nil
}

// CommitUpdate persists a full-replace edit of an existing event and, on
// success, applies it to the store.
func (c *Committer) CommitUpdate(ctx context.Context, ev Event) error {
	in := EventInput{
		Title:       ev.Title,
		Description: ev.Description,
		Color:       ev.Color,
		Type:        ev.Type,
		Status:      ev.Status,
		CreatedBy:   ev.CreatedBy,
		PatientID:   ev.PatientID,
	}
	draft := Draft{StartAt: ev.StartAt, EndAt: ev.EndAt}

	if err := c.repo.UpdateEvent(ctx, ev.ID, eventInputRecord(in, draft)); err != nil {
		return errs.New("update event").Arg("id", ev.ID).Wrap(err)
	}

	c.store.UpdateEvent(ev)
	return nil
}

func eventInputRecord(in EventInput, draft Draft) model.EventInput {
	rec := model.EventInput{
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		StartTime:   draft.StartAt,
		EndTime:     draft.EndAt,
		EventType:   string(in.Type),
		Status:      string(in.Status),
	}
	if in.PatientID != "" {
		rec.PatientID = &in.PatientID
	}
	if in.ProviderID != "" {
		rec.ProviderID = &in.ProviderID
	}
	return rec
}
