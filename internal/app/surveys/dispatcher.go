package surveys

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	clockport "github.com/mitchsmii/EllaRises/internal/ports/out/clock"
	"github.com/mitchsmii/EllaRises/internal/ports/out/eventrepo"
	"github.com/mitchsmii/EllaRises/internal/ports/out/notifier"
	"github.com/mitchsmii/EllaRises/internal/ports/out/registrationrepo"
)

// Dispatcher sends post-event survey invitations. One Run covers occurrences
// that ended during the prior UTC calendar day and have not been surveyed.
type Dispatcher struct {
	events eventrepo.Repository
	regs   registrationrepo.Repository
	send   notifier.Notifier
	clk    clockport.Clock
	log    *zap.Logger

	// AppURL is the public site base, used to build survey links.
	AppURL string
	// Concurrency caps simultaneous sends per occurrence.
	Concurrency int
	// SendTimeout bounds a single send attempt.
	SendTimeout time.Duration
	// RetryBackoff is the pause before the single retry of a failed send.
	RetryBackoff time.Duration
}

func NewDispatcher(
	events eventrepo.Repository,
	regs registrationrepo.Repository,
	send notifier.Notifier,
	clk clockport.Clock,
	log *zap.Logger,
	appURL string,
) *Dispatcher {
	return &Dispatcher{
		events:       events,
		regs:         regs,
		send:         send,
		clk:          clk,
		log:          log,
		AppURL:       strings.TrimRight(appURL, "/"),
		Concurrency:  8,
		SendTimeout:  10 * time.Second,
		RetryBackoff: 2 * time.Second,
	}
}

// Run executes one dispatch pass.
//
// Per-occurrence failures are recorded in the summary and do not abort the
// run; a failure to even list candidates (data store unreachable) does.
// The survey_sent flag is set unconditionally after the fan-out: delivery is
// best effort and an occurrence is never re-processed.
func (d *Dispatcher) Run(ctx context.Context) (Summary, error) {
	start, end := priorUTCDay(d.clk.Now())
	d.log.Info("survey dispatch run starting",
		zap.Time("windowStart", start),
		zap.Time("windowEnd", end),
	)

	candidates, err := d.events.ListSurveyCandidates(ctx, start, end)
	if err != nil {
		return Summary{}, fmt.Errorf("list survey candidates: %w", err)
	}

	sum := Summary{
		RunID:   uuid.NewString(),
		Results: make([]OccurrenceResult, 0, len(candidates)),
	}
	for _, cand := range candidates {
		res := d.processOccurrence(ctx, cand)
		sum.EventsProcessed++
		sum.TotalEmailsSent += res.Sent
		sum.Results = append(sum.Results, res)
	}

	d.log.Info("survey dispatch run complete",
		zap.String("runId", sum.RunID),
		zap.Int("eventsProcessed", sum.EventsProcessed),
		zap.Int("totalEmailsSent", sum.TotalEmailsSent),
	)
	return sum, nil
}

func (d *Dispatcher) processOccurrence(ctx context.Context, cand eventrepo.SurveyCandidate) OccurrenceResult {
	res := OccurrenceResult{OccurrenceID: cand.OccurrenceID, Title: cand.EventName}

	recipients, err := d.regs.ListRecipients(ctx, cand.OccurrenceID)
	if err != nil {
		d.log.Error("listing survey recipients failed",
			zap.Int64("occurrenceId", int64(cand.OccurrenceID)),
			zap.Error(err),
		)
		res.Err = err.Error()
		return res
	}
	res.Recipients = len(recipients)

	if len(recipients) == 0 {
		// Flag it anyway so the occurrence is not re-checked every day.
		if err := d.events.MarkSurveySent(ctx, cand.OccurrenceID); err != nil {
			res.Err = err.Error()
		}
		return res
	}

	var (
		mu     sync.Mutex
		sent   int
		failed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.Concurrency)
	for _, rcpt := range recipients {
		rcpt := rcpt
		g.Go(func() error {
			err := d.sendWithRetry(gctx, cand, rcpt)
			mu.Lock()
			if err != nil {
				failed++
			} else {
				sent++
			}
			mu.Unlock()
			if err != nil {
				d.log.Warn("survey email failed",
					zap.Int64("occurrenceId", int64(cand.OccurrenceID)),
					zap.String("to", rcpt.Email),
					zap.Error(err),
				)
			}
			// Individual send failures never fail the group.
			return nil
		})
	}
	_ = g.Wait()
	res.Sent = sent
	res.Failed = failed

	if err := d.events.MarkSurveySent(ctx, cand.OccurrenceID); err != nil {
		d.log.Error("marking survey_sent failed",
			zap.Int64("occurrenceId", int64(cand.OccurrenceID)),
			zap.Error(err),
		)
		res.Err = err.Error()
		return res
	}

	d.log.Info("occurrence processed",
		zap.Int64("occurrenceId", int64(cand.OccurrenceID)),
		zap.String("title", cand.EventName),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	return res
}

func (d *Dispatcher) sendWithRetry(ctx context.Context, cand eventrepo.SurveyCandidate, rcpt registrationrepo.Recipient) error {
	subject, html, text := d.composeEmail(cand, rcpt)

	attempt := func() error {
		sctx, cancel := context.WithTimeout(ctx, d.SendTimeout)
		defer cancel()
		_, err := d.send.Send(sctx, rcpt.Email, subject, html, text)
		return err
	}

	err := attempt()
	if err == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return err
	case <-time.After(d.RetryBackoff):
	}
	return attempt()
}

func (d *Dispatcher) composeEmail(cand eventrepo.SurveyCandidate, rcpt registrationrepo.Recipient) (subject, html, text string) {
	name := strings.TrimSpace(rcpt.FirstName + " " + rcpt.LastName)
	if name == "" {
		name = "Participant"
	}
	attendedText := "registered for"
	if rcpt.Attended {
		attendedText = "attended"
	}
	surveyURL := d.AppURL + "/surveys"
	year := d.clk.Now().UTC().Year()

	subject = "Survey: " + cand.EventName

	html = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #fcd5ce, #f8b4b4); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
      <h1 style="color: white; margin: 0;">Ella Rises</h1>
    </div>
    <div style="background: #fff; padding: 30px; border: 1px solid #ddd; border-top: none;">
      <h2>Thank you for %s our event!</h2>
      <p>Hi %s,</p>
      <p>We hope you enjoyed <strong>%s</strong>!</p>
      <p>Your feedback is incredibly valuable to us. Please take a few minutes to complete our survey and help us improve our programs.</p>
      <p style="text-align: center;">
        <a href="%s" style="display: inline-block; padding: 12px 30px; background: #e8998d; color: white; text-decoration: none; border-radius: 5px;">Take Survey</a>
      </p>
      <p>Or visit: <a href="%s">%s</a></p>
      <p>Thank you for being part of the Ella Rises community!</p>
      <p>Best regards,<br>The Ella Rises Team</p>
    </div>
    <div style="text-align: center; padding: 20px; color: #666; font-size: 12px;">
      <p>This email was sent because you %s an Ella Rises event.</p>
      <p>&copy; %d Ella Rises. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`, attendedText, name, cand.EventName, surveyURL, surveyURL, surveyURL, attendedText, year)

	text = fmt.Sprintf(`Hi %s,

We hope you enjoyed %s!

Your feedback is incredibly valuable to us. Please take a few minutes to complete our survey and help us improve our programs.

Take the survey: %s

Thank you for being part of the Ella Rises community!

Best regards,
The Ella Rises Team
`, name, cand.EventName, surveyURL)

	return subject, html, text
}

// priorUTCDay returns the [00:00:00, 23:59:59.999] window of the UTC calendar
// day before now.
func priorUTCDay(now time.Time) (start, end time.Time) {
	now = now.UTC()
	y, m, day := now.AddDate(0, 0, -1).Date()
	start = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	end = time.Date(y, m, day, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return start, end
}
