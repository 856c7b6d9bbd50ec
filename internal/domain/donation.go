package domain

import "time"

// Donation is a single gift. AmountCents avoids floating point money.
type Donation struct {
	ID          DonationID
	PersonID    PersonID
	AmountCents int64
	DonatedAt   time.Time

	// ReceiptNumber is an opaque, globally unique identifier printed on the
	// donor's receipt.
	ReceiptNumber string
}

// Milestone records a participant achievement (scholarship, graduation,
// mentor pairing, and so on).
type Milestone struct {
	ID         MilestoneID
	PersonID   PersonID
	Title      string
	Category   string
	AchievedAt time.Time
}

// SurveyResponse is a post-event survey submission. PersonID is nil for
// anonymous submissions.
type SurveyResponse struct {
	ID           SurveyResponseID
	OccurrenceID OccurrenceID
	PersonID     *PersonID
	Rating       int
	Comments     string
	SubmittedAt  time.Time
}
