package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mitchsmii/EllaRises/internal/adapters/postgres"
	pgeventrepo "github.com/mitchsmii/EllaRises/internal/adapters/postgres/eventrepo"
	pgregistrationrepo "github.com/mitchsmii/EllaRises/internal/adapters/postgres/registrationrepo"
	smtpnotifier "github.com/mitchsmii/EllaRises/internal/adapters/smtp"
	"github.com/mitchsmii/EllaRises/internal/app/surveys"
	platformclock "github.com/mitchsmii/EllaRises/internal/platform/clock"
	"github.com/mitchsmii/EllaRises/internal/platform/config"
	"github.com/mitchsmii/EllaRises/internal/platform/logging"
)

// One-shot survey dispatch pass over yesterday's event occurrences, meant to
// be cron-invoked daily. Prints the run summary as JSON on stdout; a failed
// run exits non-zero so the scheduler can alert.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("missing DATABASE_URL (or DB_HOST/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if cfg.SMTPHost == "" {
		log.Fatalf("SMTP_HOST is required")
	}

	logger, err := logging.Init(logging.ConfigFromEnv())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
	if err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer pool.Close()

	send := smtpnotifier.NewNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromEmail)

	dispatcher := surveys.NewDispatcher(
		pgeventrepo.NewRepo(pool),
		pgregistrationrepo.NewRepo(pool),
		send,
		platformclock.NewSystemClock(),
		logger,
		cfg.AppURL,
	)
	dispatcher.Concurrency = cfg.SurveySendConcurrency
	dispatcher.SendTimeout = cfg.SendTimeout

	summary, err := dispatcher.Run(ctx)
	if err != nil {
		logger.Error("survey dispatch run failed", zap.Error(err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		logger.Error("summary encode failed", zap.Error(err))
		os.Exit(1)
	}
}
