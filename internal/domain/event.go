package domain

import "time"

// EventTypeSurvey marks survey events themselves; the survey dispatch job
// never sends follow-up surveys for these.
const EventTypeSurvey = "Survey"

// Event is an event definition. Scheduling lives on its occurrences.
type Event struct {
	ID          EventID
	Name        string
	Type        string
	Description string
}

// Occurrence is a single scheduled instance of an event definition.
type Occurrence struct {
	ID      OccurrenceID
	EventID EventID

	StartTime time.Time
	EndTime   time.Time
	Location  string

	// Capacity is the maximum number of active registrations; nil means
	// unlimited.
	Capacity *int

	// RegistrationDeadline closes RSVPs before the event starts; nil means
	// open until end time.
	RegistrationDeadline *time.Time

	// SurveySent is the dispatch idempotency flag: once true the occurrence
	// is never picked up by the survey job again.
	SurveySent bool
}
