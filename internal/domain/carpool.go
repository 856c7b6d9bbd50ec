package domain

import "time"

// DriverOffer is a volunteer driver's entry for one occurrence.
type DriverOffer struct {
	OccurrenceID OccurrenceID
	Email        string
	Name         string
	Phone        string
	Address      string
	RadiusMiles  int
	SeatCount    int
}

// RiderRequest is a ride request for one occurrence.
type RiderRequest struct {
	OccurrenceID OccurrenceID
	Email        string
	Name         string
	Phone        string
	Address      string
}

// Match is a coordinator-made driver/rider pairing.
type Match struct {
	ID           MatchID
	OccurrenceID OccurrenceID
	DriverEmail  string
	RiderEmail   string
	MatchedAt    time.Time
}

// DriverAvailability is the coordinator view of a driver offer: how many
// riders are matched against it and how many seats remain.
type DriverAvailability struct {
	Offer          DriverOffer
	MatchedCount   int
	AvailableSeats int
}
