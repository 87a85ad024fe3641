package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pharmops/mrep/backend-go/internal/config"
	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/notify"
	"github.com/pharmops/mrep/backend-go/pkg/logger"
)

// summaryDepartments are the views the daily cycle reports on, in send
// order.
var summaryDepartments = []string{
	domain.DepartmentSales,
	domain.DepartmentTrade,
}

// Ingester pulls the day's exports into the store before summaries are
// computed. The drive ingest service satisfies it; the CLI can run without
// one when the files were imported by hand.
type Ingester interface {
	IngestToday(ctx context.Context) error
}

// Automation runs the daily report cycle: pull exports, build summaries,
// distribute over WhatsApp.
type Automation struct {
	summaries *SummaryService
	sender    notify.Sender
	ingester  Ingester
	cfg       config.Config
	log       zerolog.Logger
}

func NewAutomation(summaries *SummaryService, sender notify.Sender, ingester Ingester, cfg config.Config) *Automation {
	return &Automation{
		summaries: summaries,
		sender:    sender,
		ingester:  ingester,
		cfg:       cfg,
		log:       logger.With("automation"),
	}
}

// RunDaily executes one full cycle for the given date. Ingest failures abort
// the cycle; a summary that cannot be built for one department is logged and
// the remaining departments still go out.
func (a *Automation) RunDaily(ctx context.Context, date time.Time) error {
	a.log.Info().Str("date", date.Format("2006-01-02")).Msg("starting daily cycle")

	if a.ingester != nil {
		if err := a.ingester.IngestToday(ctx); err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
	}

	filter := domain.SummaryFilter{
		Month: int(date.Month()) - 1,
		Year:  date.Year(),
	}

	sent := 0
	for _, dept := range summaryDepartments {
		filter.Department = dept
		summary, err := a.summaries.Summary(ctx, filter)
		if err != nil {
			a.log.Error().Str("department", dept).Err(err).Msg("summary failed")
			continue
		}
		if summary.TotalTarget == 0 && summary.TotalAchieved == 0 {
			a.log.Info().Str("department", dept).Msg("no data for department, skipping")
			continue
		}

		message := FormatSummaryMessage(a.cfg.App.CompanyName, summary)
		if err := a.sender.Send(ctx, message); err != nil {
			a.log.Error().Str("department", dept).Err(err).Msg("delivery failed")
			continue
		}
		sent++
	}

	if sent == 0 {
		return fmt.Errorf("daily cycle delivered no summaries")
	}
	a.log.Info().Int("sent", sent).Msg("daily cycle finished")
	return nil
}

// Schedule blocks and runs the daily cycle at the configured wall-clock time
// until ctx is cancelled. A failed run is logged and the loop keeps going.
func (a *Automation) Schedule(ctx context.Context) error {
	hour, minute, err := parseScheduleTime(a.cfg.Automation.ScheduleTime)
	if err != nil {
		return err
	}

	for {
		next := nextRunAt(time.Now(), hour, minute)
		a.log.Info().Time("next", next).Msg("scheduled")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(next)):
		}

		if err := a.RunDaily(ctx, time.Now()); err != nil {
			a.log.Error().Err(err).Msg("daily cycle failed")
		}
	}
}

func parseScheduleTime(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid schedule time %q, want HH:MM", s)
	}
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid schedule time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("schedule time %q out of range", s)
	}
	return hour, minute, nil
}

func nextRunAt(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
