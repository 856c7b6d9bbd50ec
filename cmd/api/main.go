package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mitchsmii/EllaRises/internal/adapters/httpapi"
	memcarpoolrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/carpoolrepo"
	memcredentialrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/credentialrepo"
	memdonationrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/donationrepo"
	memeventrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/eventrepo"
	memidempotency "github.com/mitchsmii/EllaRises/internal/adapters/memory/idempotency"
	memmilestonerepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/milestonerepo"
	memnotifier "github.com/mitchsmii/EllaRises/internal/adapters/memory/notifier"
	mempersonrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/personrepo"
	memregistrationrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/registrationrepo"
	memsurveyresponserepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/surveyresponserepo"
	"github.com/mitchsmii/EllaRises/internal/adapters/postgres"
	pgcarpoolrepo "github.com/mitchsmii/EllaRises/internal/adapters/postgres/carpoolrepo"
	pgcredentialrepo "github.com/mitchsmii/EllaRises/internal/adapters/postgres/credentialrepo"
	pgdonationrepo "github.com/mitchsmii/EllaRises/internal/adapters/postgres/donationrepo"
	pgeventrepo "github.com/mitchsmii/EllaRises/internal/adapters/postgres/eventrepo"
	pgidempotency "github.com/mitchsmii/EllaRises/internal/adapters/postgres/idempotency"
	pgmilestonerepo "github.com/mitchsmii/EllaRises/internal/adapters/postgres/milestonerepo"
	pgpersonrepo "github.com/mitchsmii/EllaRises/internal/adapters/postgres/personrepo"
	pgregistrationrepo "github.com/mitchsmii/EllaRises/internal/adapters/postgres/registrationrepo"
	pgsurveyresponserepo "github.com/mitchsmii/EllaRises/internal/adapters/postgres/surveyresponserepo"
	smtpnotifier "github.com/mitchsmii/EllaRises/internal/adapters/smtp"
	"github.com/mitchsmii/EllaRises/internal/app/carpool"
	"github.com/mitchsmii/EllaRises/internal/app/donations"
	"github.com/mitchsmii/EllaRises/internal/app/events"
	"github.com/mitchsmii/EllaRises/internal/app/milestones"
	"github.com/mitchsmii/EllaRises/internal/app/people"
	"github.com/mitchsmii/EllaRises/internal/app/registrations"
	"github.com/mitchsmii/EllaRises/internal/app/surveyresponses"
	"github.com/mitchsmii/EllaRises/internal/app/surveys"
	"github.com/mitchsmii/EllaRises/internal/platform/auth"
	platformclock "github.com/mitchsmii/EllaRises/internal/platform/clock"
	"github.com/mitchsmii/EllaRises/internal/platform/config"
	"github.com/mitchsmii/EllaRises/internal/platform/logging"
	carpoolrepoport "github.com/mitchsmii/EllaRises/internal/ports/out/carpoolrepo"
	credentialrepoport "github.com/mitchsmii/EllaRises/internal/ports/out/credentialrepo"
	donationrepoport "github.com/mitchsmii/EllaRises/internal/ports/out/donationrepo"
	eventrepoport "github.com/mitchsmii/EllaRises/internal/ports/out/eventrepo"
	idempotencyport "github.com/mitchsmii/EllaRises/internal/ports/out/idempotency"
	milestonerepoport "github.com/mitchsmii/EllaRises/internal/ports/out/milestonerepo"
	notifierport "github.com/mitchsmii/EllaRises/internal/ports/out/notifier"
	personrepoport "github.com/mitchsmii/EllaRises/internal/ports/out/personrepo"
	registrationrepoport "github.com/mitchsmii/EllaRises/internal/ports/out/registrationrepo"
	surveyresponserepoport "github.com/mitchsmii/EllaRises/internal/ports/out/surveyresponserepo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET is required")
	}

	logger, err := logging.Init(logging.ConfigFromEnv())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	clk := platformclock.NewSystemClock()
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	var (
		personRepo         personrepoport.Repository
		credentialRepo     credentialrepoport.Repository
		eventRepo          eventrepoport.Repository
		registrationRepo   registrationrepoport.Repository
		carpoolRepo        carpoolrepoport.Repository
		donationRepo       donationrepoport.Repository
		milestoneRepo      milestonerepoport.Repository
		surveyResponseRepo surveyresponserepoport.Repository
		idemStore          idempotencyport.Store
		cleanup            func()
	)

	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			logger.Fatal("postgres connect", zap.Error(err))
		}
		cleanup = pool.Close

		personRepo = pgpersonrepo.NewRepo(pool)
		credentialRepo = pgcredentialrepo.NewRepo(pool)
		eventRepo = pgeventrepo.NewRepo(pool)
		registrationRepo = pgregistrationrepo.NewRepo(pool)
		carpoolRepo = pgcarpoolrepo.NewRepo(pool)
		donationRepo = pgdonationrepo.NewRepo(pool)
		milestoneRepo = pgmilestonerepo.NewRepo(pool)
		surveyResponseRepo = pgsurveyresponserepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	default:
		memPeople := mempersonrepo.NewRepo()
		personRepo = memPeople
		credentialRepo = memcredentialrepo.NewRepo()
		eventRepo = memeventrepo.NewRepo()
		registrationRepo = memregistrationrepo.NewRepo(memPeople)
		carpoolRepo = memcarpoolrepo.NewRepo()
		donationRepo = memdonationrepo.NewRepo(memPeople)
		milestoneRepo = memmilestonerepo.NewRepo()
		surveyResponseRepo = memsurveyresponserepo.NewRepo()
		idemStore = memidempotency.NewStore()
	}

	if cleanup != nil {
		defer cleanup()
	}

	var send notifierport.Notifier
	if cfg.SMTPHost != "" {
		send = smtpnotifier.NewNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromEmail)
	} else {
		logger.Warn("SMTP_HOST not set, survey emails go to the in-memory sink")
		send = memnotifier.New()
	}

	peopleSvc := people.NewService(personRepo, credentialRepo, tokens, clk)
	eventsSvc := events.NewService(eventRepo, registrationRepo)
	regsSvc := registrations.NewService(registrationRepo, eventRepo, personRepo, carpoolRepo, clk)
	carpoolSvc := carpool.NewService(carpoolRepo, eventRepo, clk)
	donationsSvc := donations.NewService(donationRepo, clk)
	milestonesSvc := milestones.NewService(milestoneRepo, personRepo, clk)
	responsesSvc := surveyresponses.NewService(surveyResponseRepo, eventRepo, clk)

	dispatcher := surveys.NewDispatcher(eventRepo, registrationRepo, send, clk, logger, cfg.AppURL)
	dispatcher.Concurrency = cfg.SurveySendConcurrency
	dispatcher.SendTimeout = cfg.SendTimeout

	api := httpapi.NewServer(
		peopleSvc, eventsSvc, regsSvc, carpoolSvc,
		donationsSvc, milestonesSvc, responsesSvc,
		dispatcher, idemStore, logger,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(api, tokens),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
