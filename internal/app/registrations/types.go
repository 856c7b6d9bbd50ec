package registrations

import "github.com/mitchsmii/EllaRises/internal/domain"

// RSVPInput is the registration request. Address, RadiusMiles and SeatCount
// are only meaningful for the carpool/drive transport options.
type RSVPInput struct {
	Option      domain.TransportOption
	Address     string
	RadiusMiles int
	SeatCount   int
}

// RSVPResult is the created registration plus the confirmation copy shown to
// the participant, which varies by transport option.
type RSVPResult struct {
	Registration domain.Registration
	Message      string
}
