package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mitchsmii/EllaRises/internal/platform/auth"
)

// NewRouter constructs the API HTTP router.
//
// Public routes: health, auth, donations and survey submission. Everything
// else requires a bearer token; the /admin subtree and mutating catalog and
// people routes additionally require the manager role.
func NewRouter(s *Server, tokens *auth.Tokens) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.Log))

	// Health endpoint is unauthenticated, used for infra checks.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/donations", s.handleRecordDonation)
	r.Post("/surveys/{occurrenceID}/responses", s.handleSubmitSurveyResponse)

	r.Group(func(r chi.Router) {
		r.Use(NewAuthMiddleware(tokens))

		r.Get("/people", s.handleListPeople)
		r.Get("/people/{personID}", s.handleGetPerson)
		r.Get("/people/{personID}/milestones", s.handleListMilestones)

		// The /events wildcard is an event id on catalog routes and an
		// occurrence id on the rsvp routes, so it gets a neutral name.
		r.Get("/events", s.handleListEvents)
		r.Get("/events/{id}", s.handleGetEvent)
		r.Get("/occurrences/{occurrenceID}", s.handleGetOccurrence)

		r.Post("/events/{id}/rsvp", s.handleCreateRSVP)
		r.Delete("/events/{id}/rsvp", s.handleCancelRSVP)

		r.Group(func(r chi.Router) {
			r.Use(RequireManager)

			r.Post("/people", s.handleCreatePerson)
			r.Patch("/people/{personID}", s.handleUpdatePerson)
			r.Delete("/people/{personID}", s.handleDeletePerson)
			r.Post("/people/{personID}/milestones", s.handleCreateMilestone)
			r.Delete("/milestones/{milestoneID}", s.handleDeleteMilestone)

			r.Post("/events", s.handleCreateEvent)
			r.Delete("/events/{id}", s.handleDeleteEvent)
			r.Post("/events/{id}/occurrences", s.handleCreateOccurrence)

			r.Get("/surveys/{occurrenceID}/responses", s.handleListSurveyResponses)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/events/{occurrenceID}/transportation", s.handleTransportation)
				r.Post("/events/{occurrenceID}/match", s.handleCreateMatch)
				r.Post("/surveys/dispatch", s.handleDispatchSurveys)
			})
		})
	})

	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
