package httpapi

import (
	"time"

	"github.com/mitchsmii/EllaRises/internal/app/carpool"
	"github.com/mitchsmii/EllaRises/internal/app/events"
	"github.com/mitchsmii/EllaRises/internal/domain"
)

type personView struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Phone     *string    `json:"phone,omitempty"`
	City      *string    `json:"city,omitempty"`
	State     *string    `json:"state,omitempty"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
}

func personFromDomain(p domain.Person) personView {
	return personView{
		ID:        int64(p.ID),
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		City:      p.City,
		State:     p.State,
		Birthdate: p.Birthdate,
	}
}

type eventView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

func eventFromDomain(e domain.Event) eventView {
	return eventView{
		ID:          int64(e.ID),
		Name:        e.Name,
		Type:        e.Type,
		Description: e.Description,
	}
}

type occurrenceView struct {
	ID                   int64      `json:"id"`
	EventID              int64      `json:"eventId"`
	StartTime            time.Time  `json:"startTime"`
	EndTime              time.Time  `json:"endTime"`
	Location             string     `json:"location,omitempty"`
	Capacity             *int       `json:"capacity,omitempty"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
	ActiveCount          int        `json:"activeCount"`
}

func occurrenceFromView(v events.OccurrenceView) occurrenceView {
	o := v.Occurrence
	return occurrenceView{
		ID:                   int64(o.ID),
		EventID:              int64(o.EventID),
		StartTime:            o.StartTime,
		EndTime:              o.EndTime,
		Location:             o.Location,
		Capacity:             o.Capacity,
		RegistrationDeadline: o.RegistrationDeadline,
		ActiveCount:          v.ActiveCount,
	}
}

type milestoneView struct {
	ID         int64     `json:"id"`
	PersonID   int64     `json:"personId"`
	Title      string    `json:"title"`
	Category   string    `json:"category,omitempty"`
	AchievedAt time.Time `json:"achievedAt"`
}

func milestoneFromDomain(m domain.Milestone) milestoneView {
	return milestoneView{
		ID:         int64(m.ID),
		PersonID:   int64(m.PersonID),
		Title:      m.Title,
		Category:   m.Category,
		AchievedAt: m.AchievedAt,
	}
}

type driverView struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	RadiusMiles    int    `json:"radiusMiles"`
	SeatCount      int    `json:"seatCount"`
	MatchedCount   int    `json:"matchedCount"`
	AvailableSeats int    `json:"availableSeats"`
}

type riderView struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type matchView struct {
	ID          int64     `json:"id"`
	DriverEmail string    `json:"driverEmail"`
	RiderEmail  string    `json:"riderEmail"`
	MatchedAt   time.Time `json:"matchedAt"`
}

type transportationView struct {
	Drivers         []driverView `json:"drivers"`
	AvailableRiders []riderView  `json:"availableRiders"`
	Matches         []matchView  `json:"matches"`
}

func transportationFromApp(t carpool.Transportation) transportationView {
	out := transportationView{
		Drivers:         make([]driverView, 0, len(t.Drivers)),
		AvailableRiders: make([]riderView, 0, len(t.AvailableRiders)),
		Matches:         make([]matchView, 0, len(t.Matches)),
	}
	for _, d := range t.Drivers {
		out.Drivers = append(out.Drivers, driverView{
			Email:          d.Offer.Email,
			Name:           d.Offer.Name,
			Phone:          d.Offer.Phone,
			Address:        d.Offer.Address,
			RadiusMiles:    d.Offer.RadiusMiles,
			SeatCount:      d.Offer.SeatCount,
			MatchedCount:   d.MatchedCount,
			AvailableSeats: d.AvailableSeats,
		})
	}
	for _, r := range t.AvailableRiders {
		out.AvailableRiders = append(out.AvailableRiders, riderView{
			Email:   r.Email,
			Name:    r.Name,
			Phone:   r.Phone,
			Address: r.Address,
		})
	}
	for _, m := range t.Matches {
		out.Matches = append(out.Matches, matchFromDomain(m))
	}
	return out
}

func matchFromDomain(m domain.Match) matchView {
	return matchView{
		ID:          int64(m.ID),
		DriverEmail: m.DriverEmail,
		RiderEmail:  m.RiderEmail,
		MatchedAt:   m.MatchedAt,
	}
}

type donationView struct {
	ID            int64     `json:"id"`
	PersonID      int64     `json:"personId"`
	AmountCents   int64     `json:"amountCents"`
	DonatedAt     time.Time `json:"donatedAt"`
	ReceiptNumber string    `json:"receiptNumber"`
}

func donationFromDomain(d domain.Donation) donationView {
	return donationView{
		ID:            int64(d.ID),
		PersonID:      int64(d.PersonID),
		AmountCents:   d.AmountCents,
		DonatedAt:     d.DonatedAt,
		ReceiptNumber: d.ReceiptNumber,
	}
}

type surveyResponseView struct {
	ID           int64     `json:"id"`
	OccurrenceID int64     `json:"occurrenceId"`
	PersonID     *int64    `json:"personId,omitempty"`
	Rating       int       `json:"rating"`
	Comments     string    `json:"comments,omitempty"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

func surveyResponseFromDomain(r domain.SurveyResponse) surveyResponseView {
	v := surveyResponseView{
		ID:           int64(r.ID),
		OccurrenceID: int64(r.OccurrenceID),
		Rating:       r.Rating,
		Comments:     r.Comments,
		SubmittedAt:  r.SubmittedAt,
	}
	if r.PersonID != nil {
		pid := int64(*r.PersonID)
		v.PersonID = &pid
	}
	return v
}
