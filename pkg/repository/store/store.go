package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicboard/calgrid/pkg/repository/model"
)

// ErrConflict maps Postgres unique/exclusion violations (an event landing
// on an occupied range) to a branchable domain error.
var ErrConflict = errors.New("conflicting event")

// PGRepo is the Postgres-backed persistence collaborator.
type PGRepo struct{ pool *pgxpool.Pool }

// NewRepo connects and pings the pool.
func NewRepo(ctx context.Context, dsn string) (*PGRepo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &PGRepo{pool: pool}, nil
}

// Close releases the pool.
func (r *PGRepo) Close() { r.pool.Close() }

// ListEvents returns every event intersecting the half-open range
// [from, to), ordered by start.
func (r *PGRepo) ListEvents(ctx context.Context, from, to time.Time) ([]model.EventRecord, error) {
	const q = `
		SELECT id, title, COALESCE(description,''), COALESCE(color,''),
		       start_at, end_at, event_type, status, created_by, patient_id
		FROM calendar_event
		WHERE start_at < $2 AND end_at > $1
		ORDER BY start_at;
	`
	rows, err := r.pool.Query(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EventRecord
	for rows.Next() {
		var rec model.EventRecord
		var start, end time.Time
		if err := rows.Scan(
			&rec.ID, &rec.Title, &rec.Description, &rec.Color,
			&start, &end, &rec.EventType, &rec.Status,
			&rec.CreatedBy, &rec.PatientID,
		); err != nil {
			return nil, err
		}
		rec.StartTime = start.Format(time.RFC3339)
		rec.EndTime = end.Format(time.RFC3339)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CreateEvent inserts the event and returns the server-issued id.
func (r *PGRepo) CreateEvent(ctx context.Context, in model.EventInput) (string, error) {
	const q = `
		INSERT INTO calendar_event
			(title, description, color, start_at, end_at, event_type, status, created_by, patient_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,COALESCE($8,''),$9)
		RETURNING id;
	`
	var id string
	err := r.pool.QueryRow(ctx, q,
		in.Title, in.Description, in.Color, in.StartTime, in.EndTime,
		in.EventType, in.Status, in.ProviderID, in.PatientID,
	).Scan(&id)
	if err != nil {
		return "", mapConflict(err)
	}
	return id, nil
}

// UpdateEvent replaces the stored event wholesale.
func (r *PGRepo) UpdateEvent(ctx context.Context, id string, in model.EventInput) error {
	const q = `
		UPDATE calendar_event
		SET title=$2, description=$3, color=$4, start_at=$5, end_at=$6,
		    event_type=$7, status=$8, patient_id=$9, updated_at=now()
		WHERE id=$1;
	`
	tag, err := r.pool.Exec(ctx, q,
		id, in.Title, in.Description, in.Color, in.StartTime, in.EndTime,
		in.EventType, in.Status, in.PatientID,
	)
	if err != nil {
		return mapConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteEvent removes the event by id. Deleting a missing id is not an
// error.
func (r *PGRepo) DeleteEvent(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM calendar_event WHERE id=$1`, id)
	return err
}

// SaveSchedule upserts a schedule and rewrites its slots. A default
// schedule clears the flag on every other row in the same transaction.
func (r *PGRepo) SaveSchedule(ctx context.Context, s model.ScheduleRecord) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var id string
	if s.ID == "" {
		err = tx.QueryRow(ctx, `
			INSERT INTO schedule (name, is_default, timezone)
			VALUES ($1,$2,$3)
			RETURNING id;
		`, s.Name, s.IsDefault, s.TimeZone).Scan(&id)
	} else {
		id = s.ID
		_, err = tx.Exec(ctx, `
			UPDATE schedule SET name=$2, is_default=$3, timezone=$4, updated_at=now()
			WHERE id=$1;
		`, id, s.Name, s.IsDefault, s.TimeZone)
	}
	if err != nil {
		return "", err
	}

	if s.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE schedule SET is_default=false WHERE id<>$1`, id); err != nil {
			return "", err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM schedule_slot WHERE schedule_id=$1`, id); err != nil {
		return "", err
	}
	for _, slot := range s.Slots {
		days := make([]int32, len(slot.Weekdays))
		for i, d := range slot.Weekdays {
			days[i] = int32(d)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO schedule_slot (schedule_id, weekdays, start_min, end_min)
			VALUES ($1,$2,$3,$4);
		`, id, days, slot.StartMin, slot.EndMin)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// ListSchedules returns every schedule with its slots.
func (r *PGRepo) ListSchedules(ctx context.Context) ([]model.ScheduleRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, is_default, timezone FROM schedule ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScheduleRecord
	for rows.Next() {
		var s model.ScheduleRecord
		if err := rows.Scan(&s.ID, &s.Name, &s.IsDefault, &s.TimeZone); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		slots, err := r.listSlots(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Slots = slots
	}
	return out, nil
}

func (r *PGRepo) listSlots(ctx context.Context, scheduleID string) ([]model.SlotRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT weekdays, start_min, end_min
		FROM schedule_slot WHERE schedule_id=$1 ORDER BY start_min;
	`, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SlotRecord
	for rows.Next() {
		var days []int32
		var slot model.SlotRecord
		if err := rows.Scan(&days, &slot.StartMin, &slot.EndMin); err != nil {
			return nil, err
		}
		slot.Weekdays = make([]int, len(days))
		for i, d := range days {
			slot.Weekdays[i] = int(d)
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

// SaveOverride upserts a date override with its windows.
func (r *PGRepo) SaveOverride(ctx context.Context, o model.OverrideRecord) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var id string
	if o.ID == "" {
		err = tx.QueryRow(ctx, `
			INSERT INTO date_override (dates, unavailable)
			VALUES ($1,$2)
			RETURNING id;
		`, o.Dates, o.Unavailable).Scan(&id)
	} else {
		id = o.ID
		_, err = tx.Exec(ctx, `
			UPDATE date_override SET dates=$2, unavailable=$3, updated_at=now()
			WHERE id=$1;
		`, id, o.Dates, o.Unavailable)
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM override_window WHERE override_id=$1`, id); err != nil {
		return "", err
	}
	for _, w := range o.Slots {
		_, err := tx.Exec(ctx, `
			INSERT INTO override_window (override_id, start_min, end_min)
			VALUES ($1,$2,$3);
		`, id, w.StartMin, w.EndMin)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteOverride removes an override and its windows.
func (r *PGRepo) DeleteOverride(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM date_override WHERE id=$1`, id)
	return err
}

func mapConflict(err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && (pgerr.Code == "23P01" || pgerr.Code == "23505") {
		return ErrConflict
	}
	return err
}
