package domain

import (
	"fmt"
	"time"
)

type RegistrationStatus string

const (
	RegistrationActive    RegistrationStatus = "active"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// Registration is one person's RSVP for one occurrence. Cancellation is a
// soft delete: the row is kept with status=cancelled for history.
type Registration struct {
	ID           RegistrationID
	PersonID     PersonID
	OccurrenceID OccurrenceID
	Status       RegistrationStatus
	Attended     bool
	CreatedAt    time.Time
}

// TransportOption is the closed set of transportation choices offered on the
// RSVP form. Unrecognized values are rejected rather than defaulted.
type TransportOption string

const (
	TransportCarpool TransportOption = "carpool"  // requests a ride
	TransportDrive   TransportOption = "drive"    // offers to drive others
	TransportBus     TransportOption = "bus"      // chartered bus / transit
	TransportVirtual TransportOption = "virtual"  // attending remotely
	TransportNoRide  TransportOption = "no-drive" // own transportation
)

func ParseTransportOption(s string) (TransportOption, error) {
	switch TransportOption(s) {
	case TransportCarpool, TransportDrive, TransportBus, TransportVirtual, TransportNoRide:
		return TransportOption(s), nil
	}
	return "", fmt.Errorf("unknown transportation option %q", s)
}
