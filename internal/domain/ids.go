package domain

// Row identifiers are storage-assigned identity values. A zero value means
// "not yet persisted".
type (
	PersonID         int64
	EventID          int64
	OccurrenceID     int64
	RegistrationID   int64
	DonationID       int64
	MilestoneID      int64
	SurveyResponseID int64
	MatchID          int64
)
