package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	memcarpoolrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/carpoolrepo"
	memclock "github.com/mitchsmii/EllaRises/internal/adapters/memory/clock"
	memcredentialrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/credentialrepo"
	memdonationrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/donationrepo"
	memeventrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/eventrepo"
	memidempotency "github.com/mitchsmii/EllaRises/internal/adapters/memory/idempotency"
	memmilestonerepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/milestonerepo"
	memnotifier "github.com/mitchsmii/EllaRises/internal/adapters/memory/notifier"
	mempersonrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/personrepo"
	memregistrationrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/registrationrepo"
	memsurveyresponserepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/surveyresponserepo"
	"github.com/mitchsmii/EllaRises/internal/app/carpool"
	"github.com/mitchsmii/EllaRises/internal/app/donations"
	"github.com/mitchsmii/EllaRises/internal/app/events"
	"github.com/mitchsmii/EllaRises/internal/app/milestones"
	"github.com/mitchsmii/EllaRises/internal/app/people"
	"github.com/mitchsmii/EllaRises/internal/app/registrations"
	"github.com/mitchsmii/EllaRises/internal/app/surveyresponses"
	"github.com/mitchsmii/EllaRises/internal/app/surveys"
	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/platform/auth"
)

type fixture struct {
	handler http.Handler
	tokens  *auth.Tokens
	clk     *memclock.ManualClock

	people  *mempersonrepo.Repo
	events  *memeventrepo.Repo
	regs    *memregistrationrepo.Repo
	carpool *memcarpoolrepo.Repo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tokens := auth.NewTokens("test-secret", time.Hour)

	peopleRepo := mempersonrepo.NewRepo()
	credRepo := memcredentialrepo.NewRepo()
	eventRepo := memeventrepo.NewRepo()
	regRepo := memregistrationrepo.NewRepo(peopleRepo)
	carpoolRepo := memcarpoolrepo.NewRepo()
	donationRepo := memdonationrepo.NewRepo(peopleRepo)
	milestoneRepo := memmilestonerepo.NewRepo()
	responseRepo := memsurveyresponserepo.NewRepo()
	sink := memnotifier.New()

	dispatcher := surveys.NewDispatcher(eventRepo, regRepo, sink, clk, zap.NewNop(), "https://ellarises.org")

	srv := NewServer(
		people.NewService(peopleRepo, credRepo, tokens, clk),
		events.NewService(eventRepo, regRepo),
		registrations.NewService(regRepo, eventRepo, peopleRepo, carpoolRepo, clk),
		carpool.NewService(carpoolRepo, eventRepo, clk),
		donations.NewService(donationRepo, clk),
		milestones.NewService(milestoneRepo, peopleRepo, clk),
		surveyresponses.NewService(responseRepo, eventRepo, clk),
		dispatcher,
		memidempotency.NewStore(),
		zap.NewNop(),
	)

	return &fixture{
		handler: NewRouter(srv, tokens),
		tokens:  tokens,
		clk:     clk,
		people:  peopleRepo,
		events:  eventRepo,
		regs:    regRepo,
		carpool: carpoolRepo,
	}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) token(t *testing.T, email string, role domain.Role) string {
	t.Helper()
	tok, err := f.tokens.Sign(auth.Claims{Email: email, Role: role}, f.clk.Now())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func (f *fixture) seedPerson(t *testing.T, email string) domain.Person {
	t.Helper()
	p, err := f.people.Create(context.Background(), domain.Person{
		Email:     email,
		FirstName: "Ana",
		LastName:  "Lopez",
	})
	if err != nil {
		t.Fatalf("seed person: %v", err)
	}
	return p
}

// seedOccurrence creates a tomorrow-evening occurrence relative to the
// fixture clock.
func (f *fixture) seedOccurrence(t *testing.T) domain.Occurrence {
	t.Helper()
	ev, err := f.events.CreateEvent(context.Background(), domain.Event{Name: "Mentor Mixer", Type: "Workshop"})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	occ, err := f.events.CreateOccurrence(context.Background(), domain.Occurrence{
		EventID:   ev.ID,
		StartTime: f.clk.Now().Add(30 * time.Hour),
		EndTime:   f.clk.Now().Add(32 * time.Hour),
		Location:  "Community Center",
	})
	if err != nil {
		t.Fatalf("seed occurrence: %v", err)
	}
	return occ
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestAuth_MissingOrBadToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/people", "", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d", rec.Code)
	}
	rec = f.do(t, http.MethodGet, "/people", "not-a-jwt", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status=%d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatalf("success=true on 401")
	}
}

func TestAuth_ManagerRequired(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	userTok := f.token(t, "ana@example.com", domain.RoleUser)

	rec := f.do(t, http.MethodPost, "/events", userTok, map[string]any{"name": "Gala"}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status=%d, want 403", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "manager role required" {
		t.Fatalf("message=%q", env.Message)
	}
}

func TestSignupAndLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	creds := map[string]string{"email": "ana@example.com", "password": "hunter2hunter2"}
	rec := f.do(t, http.MethodPost, "/auth/signup", "", creds, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/auth/login", "", creds, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool        `json:"success"`
		Data    sessionView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data.Token == "" || resp.Data.Role != "user" {
		t.Fatalf("session=%+v", resp.Data)
	}

	claims, err := f.tokens.Verify(resp.Data.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.Email != "ana@example.com" {
		t.Fatalf("claims=%+v", claims)
	}

	// wrong password
	rec = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "wrong-password"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("wrong password status=%d", rec.Code)
	}
}

func TestCreateRSVP_IdempotentReplay(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.seedPerson(t, "ana@example.com")
	occ := f.seedOccurrence(t)
	tok := f.token(t, p.Email, domain.RoleUser)

	path := fmt.Sprintf("/events/%d/rsvp", occ.ID)
	hdr := http.Header{"Idempotency-Key": []string{"rsvp-7f3a"}}

	rec1 := f.do(t, http.MethodPost, path, tok, map[string]any{"option": "bus"}, hdr)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first status=%d body=%s", rec1.Code, rec1.Body.String())
	}

	rec2 := f.do(t, http.MethodPost, path, tok, map[string]any{"option": "bus"}, hdr)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay status=%d body=%s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body differs:\n%s\n%s", rec1.Body.String(), rec2.Body.String())
	}

	n, err := f.regs.CountActive(context.Background(), occ.ID)
	if err != nil {
		t.Fatalf("CountActive err=%v", err)
	}
	if n != 1 {
		t.Fatalf("active registrations=%d, want 1", n)
	}
}

func TestCreateRSVP_UnknownOption(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.seedPerson(t, "ana@example.com")
	occ := f.seedOccurrence(t)
	tok := f.token(t, p.Email, domain.RoleUser)

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/events/%d/rsvp", occ.ID), tok, map[string]any{"option": "teleport"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "unknown transportation option" {
		t.Fatalf("message=%q", env.Message)
	}
}

// A credential with no participant profile cannot RSVP.
func TestCreateRSVP_NoProfile(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	occ := f.seedOccurrence(t)
	tok := f.token(t, "ghost@example.com", domain.RoleUser)

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/events/%d/rsvp", occ.ID), tok, map[string]any{"option": "bus"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCancelRSVP(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.seedPerson(t, "ana@example.com")
	occ := f.seedOccurrence(t)
	tok := f.token(t, p.Email, domain.RoleUser)
	path := fmt.Sprintf("/events/%d/rsvp", occ.ID)

	if rec := f.do(t, http.MethodPost, path, tok, map[string]any{"option": "no-drive"}, nil); rec.Code != http.StatusCreated {
		t.Fatalf("rsvp status=%d", rec.Code)
	}
	rec := f.do(t, http.MethodDelete, path, tok, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status=%d body=%s", rec.Code, rec.Body.String())
	}
	if env := decodeEnvelope(t, rec); env.Message != "registration cancelled" {
		t.Fatalf("message=%q", env.Message)
	}
}

func TestAdminMatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	occ := f.seedOccurrence(t)
	tok := f.token(t, "mgr@example.com", domain.RoleManager)
	path := fmt.Sprintf("/admin/events/%d/match", occ.ID)

	// no driver offered yet
	rec := f.do(t, http.MethodPost, path, tok, map[string]string{"driverEmail": "d@example.com", "riderEmail": "r@example.com"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown driver status=%d body=%s", rec.Code, rec.Body.String())
	}

	err := f.carpool.UpsertDriver(context.Background(), domain.DriverOffer{
		OccurrenceID: occ.ID, Email: "d@example.com", Name: "Dee", SeatCount: 2,
	})
	if err != nil {
		t.Fatalf("seed driver: %v", err)
	}
	err = f.carpool.UpsertRider(context.Background(), domain.RiderRequest{
		OccurrenceID: occ.ID, Email: "r@example.com", Name: "Ria",
	})
	if err != nil {
		t.Fatalf("seed rider: %v", err)
	}

	rec = f.do(t, http.MethodPost, path, tok, map[string]string{"driverEmail": "d@example.com", "riderEmail": "r@example.com"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("match status=%d body=%s", rec.Code, rec.Body.String())
	}
	if env := decodeEnvelope(t, rec); env.Message != "match created" {
		t.Fatalf("message=%q", env.Message)
	}

	// non-manager cannot reach the admin subtree
	userTok := f.token(t, "ana@example.com", domain.RoleUser)
	rec = f.do(t, http.MethodPost, path, userTok, map[string]string{"driverEmail": "d@example.com", "riderEmail": "r@example.com"}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user on admin route status=%d", rec.Code)
	}
}

func TestRecordDonation_Public(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/donations", "", map[string]any{
		"email":       "giver@example.com",
		"firstName":   "Gia",
		"lastName":    "Vder",
		"amountCents": 2500,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if env := decodeEnvelope(t, rec); env.Message != "thank you for your donation" {
		t.Fatalf("message=%q", env.Message)
	}

	rec = f.do(t, http.MethodPost, "/donations", "", map[string]any{
		"email": "giver@example.com", "firstName": "Gia", "lastName": "Vder", "amountCents": 0,
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero amount status=%d", rec.Code)
	}
}

func TestSubmitSurveyResponse_Public(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	occ := f.seedOccurrence(t)
	path := fmt.Sprintf("/surveys/%d/responses", occ.ID)

	rec := f.do(t, http.MethodPost, path, "", map[string]any{"rating": 5, "comments": "great"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, path, "", map[string]any{"rating": 9}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad rating status=%d", rec.Code)
	}

	// listing responses is manager-only
	rec = f.do(t, http.MethodGet, path, "", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list status=%d", rec.Code)
	}
	mgrTok := f.token(t, "mgr@example.com", domain.RoleManager)
	rec = f.do(t, http.MethodGet, path, mgrTok, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("manager list status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestDispatchSurveys_Endpoint(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	mgrTok := f.token(t, "mgr@example.com", domain.RoleManager)

	rec := f.do(t, http.MethodPost, "/admin/surveys/dispatch", mgrTok, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			EventsProcessed int `json:"eventsProcessed"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data.EventsProcessed != 0 {
		t.Fatalf("summary=%+v", resp)
	}
}
