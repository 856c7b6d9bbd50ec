package httpapi

import (
	"go.uber.org/zap"

	"github.com/mitchsmii/EllaRises/internal/app/carpool"
	"github.com/mitchsmii/EllaRises/internal/app/donations"
	"github.com/mitchsmii/EllaRises/internal/app/events"
	"github.com/mitchsmii/EllaRises/internal/app/milestones"
	"github.com/mitchsmii/EllaRises/internal/app/people"
	"github.com/mitchsmii/EllaRises/internal/app/registrations"
	"github.com/mitchsmii/EllaRises/internal/app/surveyresponses"
	"github.com/mitchsmii/EllaRises/internal/app/surveys"
	"github.com/mitchsmii/EllaRises/internal/ports/out/idempotency"
)

// Server is the HTTP adapter: request decoding, auth context, error mapping.
// All business rules live in the app services it delegates to.
type Server struct {
	People          *people.Service
	Events          *events.Service
	Registrations   *registrations.Service
	Carpool         *carpool.Service
	Donations       *donations.Service
	Milestones      *milestones.Service
	SurveyResponses *surveyresponses.Service
	Dispatcher      *surveys.Dispatcher

	Idem idempotency.Store
	Log  *zap.Logger
}

func NewServer(
	peopleSvc *people.Service,
	eventsSvc *events.Service,
	regsSvc *registrations.Service,
	carpoolSvc *carpool.Service,
	donationsSvc *donations.Service,
	milestonesSvc *milestones.Service,
	responsesSvc *surveyresponses.Service,
	dispatcher *surveys.Dispatcher,
	idem idempotency.Store,
	log *zap.Logger,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		People:          peopleSvc,
		Events:          eventsSvc,
		Registrations:   regsSvc,
		Carpool:         carpoolSvc,
		Donations:       donationsSvc,
		Milestones:      milestonesSvc,
		SurveyResponses: responsesSvc,
		Dispatcher:      dispatcher,
		Idem:            idem,
		Log:             log,
	}
}
