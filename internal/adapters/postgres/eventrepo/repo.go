package eventrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/eventrepo"
)

// Repo is a Postgres implementation of eventrepo.Repository over the events
// and event_details tables.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	if r.pool == nil {
		return domain.Event{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (eventname, eventtype, eventdescription)
		VALUES ($1, $2, $3)
		RETURNING eventid
	`, e.Name, e.Type, e.Description)
	var id int64
	if err := row.Scan(&id); err != nil {
		return domain.Event{}, err
	}
	e.ID = domain.EventID(id)
	return e, nil
}

func (r *Repo) SaveEvent(ctx context.Context, e domain.Event) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE events
		SET eventname = $2, eventtype = $3, eventdescription = $4
		WHERE eventid = $1
	`, int64(e.ID), e.Name, e.Type, e.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return eventrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetEvent(ctx context.Context, id domain.EventID) (domain.Event, error) {
	if r.pool == nil {
		return domain.Event{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT eventid, eventname, eventtype, eventdescription
		FROM events
		WHERE eventid = $1
	`, int64(id))
	return scanEvent(row)
}

func (r *Repo) ListEvents(ctx context.Context) ([]domain.Event, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT eventid, eventname, eventtype, eventdescription
		FROM events
		ORDER BY eventid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		var id int64
		if err := rows.Scan(&id, &e.Name, &e.Type, &e.Description); err != nil {
			return nil, err
		}
		e.ID = domain.EventID(id)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteEvent(ctx context.Context, id domain.EventID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE eventid = $1`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return eventrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) CreateOccurrence(ctx context.Context, o domain.Occurrence) (domain.Occurrence, error) {
	if r.pool == nil {
		return domain.Occurrence{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO event_details (
			eventid,
			eventdatetimestart,
			eventdatetimeend,
			eventlocation,
			eventcapacity,
			eventregistrationdeadline,
			survey_sent
		) VALUES ($1, $2, $3, $4, $5, $6, false)
		RETURNING eventdetailid
	`,
		int64(o.EventID),
		o.StartTime.UTC(),
		o.EndTime.UTC(),
		o.Location,
		o.Capacity,
		deadlineForDB(o.RegistrationDeadline),
	)
	var id int64
	if err := row.Scan(&id); err != nil {
		// A missing parent event surfaces as an FK violation.
		return domain.Occurrence{}, eventrepo.ErrNotFound
	}
	o.ID = domain.OccurrenceID(id)
	o.SurveySent = false
	return o, nil
}

func (r *Repo) SaveOccurrence(ctx context.Context, o domain.Occurrence) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE event_details
		SET eventdatetimestart = $2,
		    eventdatetimeend = $3,
		    eventlocation = $4,
		    eventcapacity = $5,
		    eventregistrationdeadline = $6,
		    survey_sent = $7
		WHERE eventdetailid = $1
	`,
		int64(o.ID),
		o.StartTime.UTC(),
		o.EndTime.UTC(),
		o.Location,
		o.Capacity,
		deadlineForDB(o.RegistrationDeadline),
		o.SurveySent,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return eventrepo.ErrOccurrenceNotFound
	}
	return nil
}

func (r *Repo) GetOccurrence(ctx context.Context, id domain.OccurrenceID) (domain.Occurrence, error) {
	if r.pool == nil {
		return domain.Occurrence{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT eventdetailid, eventid, eventdatetimestart, eventdatetimeend,
		       eventlocation, eventcapacity, eventregistrationdeadline,
		       COALESCE(survey_sent, false)
		FROM event_details
		WHERE eventdetailid = $1
	`, int64(id))
	o, err := scanOccurrence(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Occurrence{}, eventrepo.ErrOccurrenceNotFound
		}
		return domain.Occurrence{}, err
	}
	return o, nil
}

func (r *Repo) ListOccurrencesByEvent(ctx context.Context, eventID domain.EventID) ([]domain.Occurrence, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT eventdetailid, eventid, eventdatetimestart, eventdatetimeend,
		       eventlocation, eventcapacity, eventregistrationdeadline,
		       COALESCE(survey_sent, false)
		FROM event_details
		WHERE eventid = $1
		ORDER BY eventdatetimestart ASC, eventdetailid ASC
	`, int64(eventID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Occurrence, 0)
	for rows.Next() {
		o, err := scanOccurrence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) ListSurveyCandidates(ctx context.Context, start, end time.Time) ([]eventrepo.SurveyCandidate, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT
			ed.eventdetailid,
			ed.eventid,
			e.eventname,
			ed.eventdatetimeend
		FROM event_details ed
		INNER JOIN events e ON ed.eventid = e.eventid
		WHERE ed.eventdatetimeend IS NOT NULL
			AND ed.eventdatetimeend >= $1
			AND ed.eventdatetimeend <= $2
			AND (ed.survey_sent IS NULL OR ed.survey_sent = false)
			AND e.eventtype != 'Survey'
		ORDER BY ed.eventdatetimeend ASC
	`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]eventrepo.SurveyCandidate, 0)
	for rows.Next() {
		var (
			occID   int64
			eventID int64
			name    string
			endTime time.Time
		)
		if err := rows.Scan(&occID, &eventID, &name, &endTime); err != nil {
			return nil, err
		}
		out = append(out, eventrepo.SurveyCandidate{
			OccurrenceID: domain.OccurrenceID(occID),
			EventID:      domain.EventID(eventID),
			EventName:    name,
			EndTime:      endTime.UTC(),
		})
	}
	return out, rows.Err()
}

func (r *Repo) MarkSurveySent(ctx context.Context, id domain.OccurrenceID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE event_details SET survey_sent = true WHERE eventdetailid = $1
	`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return eventrepo.ErrOccurrenceNotFound
	}
	return nil
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	var id int64
	if err := row.Scan(&id, &e.Name, &e.Type, &e.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, eventrepo.ErrNotFound
		}
		return domain.Event{}, err
	}
	e.ID = domain.EventID(id)
	return e, nil
}

func scanOccurrence(row rowScanner) (domain.Occurrence, error) {
	var (
		id       int64
		eventID  int64
		start    time.Time
		end      time.Time
		location string
		capacity *int
		deadline *time.Time
		sent     bool
	)
	if err := row.Scan(&id, &eventID, &start, &end, &location, &capacity, &deadline, &sent); err != nil {
		return domain.Occurrence{}, err
	}
	o := domain.Occurrence{
		ID:         domain.OccurrenceID(id),
		EventID:    domain.EventID(eventID),
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		Location:   location,
		Capacity:   capacity,
		SurveySent: sent,
	}
	if deadline != nil {
		v := deadline.UTC()
		o.RegistrationDeadline = &v
	}
	return o, nil
}

func deadlineForDB(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
