package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"

	"github.com/pharmops/mrep/backend-go/internal/allocate"
	"github.com/pharmops/mrep/backend-go/internal/cache"
	"github.com/pharmops/mrep/backend-go/internal/config"
	"github.com/pharmops/mrep/backend-go/internal/drive"
	"github.com/pharmops/mrep/backend-go/internal/notify"
	"github.com/pharmops/mrep/backend-go/internal/pipeline"
	"github.com/pharmops/mrep/backend-go/internal/repository/postgres"
	"github.com/pharmops/mrep/backend-go/internal/service"
	"github.com/pharmops/mrep/backend-go/internal/storage"
	"github.com/pharmops/mrep/backend-go/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "automation",
		Usage: "Daily report cycle: pull exports, build summaries, distribute",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run one daily cycle now",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "date",
						Usage: "Report date (YYYY-MM-DD), defaults to today",
					},
				},
				Action: runOnce,
			},
			{
				Name:   "schedule",
				Usage:  "Run the daily cycle at the configured time until interrupted",
				Action: runSchedule,
			},
			{
				Name:  "validate",
				Usage: "Check connectivity and data coherence for a month",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "month", Usage: "0-based month, defaults to current", Value: -1},
					&cli.IntFlag{Name: "year", Usage: "defaults to current", Value: 0},
				},
				Action: runValidate,
			},
			{
				Name:  "import",
				Usage: "Import workbooks from disk",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Directory of xlsx files to import in auto-detect mode",
						Required: true,
					},
					&cli.IntFlag{Name: "month", Usage: "0-based month, defaults to current", Value: -1},
					&cli.IntFlag{Name: "year", Usage: "defaults to current", Value: 0},
				},
				Action: runImport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("automation failed")
	}
}

// services wires the full graph once per invocation.
type services struct {
	cfg        *config.Config
	reports    *service.ReportService
	summaries  *service.SummaryService
	automation *service.Automation
}

func buildServices() (*services, error) {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.EnsureSchema(context.Background()); err != nil {
		return nil, err
	}

	summaryCache, err := cache.NewSummaryCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		summaryCache = cache.NewNoopSummaryCache()
	}

	var archive storage.ObjectStorage = storage.NewNoopStorage()
	if cfg.Storage.Enabled {
		archive, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
	}

	reports := service.NewReportService(
		pipeline.NewRunner(0),
		postgres.NewFactRepository(db),
		postgres.NewReportRepository(db),
		summaryCache,
		archive,
	)
	summaries := service.NewSummaryService(reports, surgePolicy(cfg))

	var sender notify.Sender = notify.NoopSender{}
	if cfg.WhatsApp.AccountSID != "" {
		sender = notify.NewWhatsAppSender(cfg.WhatsApp)
	}

	var ingester service.Ingester
	if cfg.Drive.CredentialsJSON != "" {
		driveService, err := drive.NewService(cfg.Drive.CredentialsJSON)
		if err != nil {
			return nil, err
		}
		ingester = &driveIngester{
			ingest: drive.NewIngestService(driveService, reports),
			folder: cfg.Drive.FolderPath,
		}
	}

	return &services{
		cfg:        cfg,
		reports:    reports,
		summaries:  summaries,
		automation: service.NewAutomation(summaries, sender, ingester, *cfg),
	}, nil
}

func surgePolicy(cfg *config.Config) *allocate.StaticSurgePolicy {
	return &allocate.StaticSurgePolicy{
		Threshold:  cfg.Automation.SurgeThreshold,
		Multiplier: cfg.Automation.SurgeFactor,
	}
}

// driveIngester adapts the drive ingest service to the automation's
// Ingester contract.
type driveIngester struct {
	ingest *drive.IngestService
	folder string
}

func (d *driveIngester) IngestToday(ctx context.Context) error {
	now := time.Now()
	_, err := d.ingest.IngestFolder(ctx, d.folder, now.Month(), now.Year())
	return err
}

func runOnce(c *cli.Context) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}

	date := time.Now()
	if v := c.String("date"); v != "" {
		date, err = time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", v, err)
		}
	}

	return svc.automation.RunDaily(c.Context, date)
}

func runSchedule(c *cli.Context) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	return svc.automation.Schedule(c.Context)
}

func runValidate(c *cli.Context) error {
	cfg := config.Load()

	// Connectivity check through the pgx driver, independent of the pq pool
	// the repositories hold.
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode)
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	fmt.Println("database: ok")

	svc, err := buildServices()
	if err != nil {
		return err
	}

	month, year := monthYearArgs(c)
	findings, err := svc.automation.ValidateMonth(c.Context, time.Month(month+1), year)
	if err != nil {
		return err
	}
	if len(findings) == 0 {
		fmt.Println("data: ok")
		return nil
	}
	for _, f := range findings {
		fmt.Println("finding:", f)
	}
	return fmt.Errorf("%d validation findings", len(findings))
}

func runImport(c *cli.Context) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}

	dir := c.String("dir")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var jobs []pipeline.Job
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xlsm") {
			continue
		}
		jobs = append(jobs, pipeline.Job{
			Filename: e.Name(),
			Path:     filepath.Join(dir, e.Name()),
			Slot:     pipeline.SlotAuto,
		})
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no workbooks found in %s", dir)
	}

	month, year := monthYearArgs(c)
	batch, err := svc.reports.ImportBatch(c.Context, jobs, pipeline.Options{
		Month: time.Month(month + 1),
		Year:  year,
	})
	if err != nil {
		return err
	}

	fmt.Printf("imported %d files, %d facts, %d errors\n",
		batch.FilesOK, len(batch.Facts), len(batch.FileErrors))
	for _, fe := range batch.FileErrors {
		fmt.Printf("  %s: %s\n", fe.Filename, fe.Message)
	}
	return nil
}

// monthYearArgs reads the 0-based month and year flags, defaulting to the
// current date.
func monthYearArgs(c *cli.Context) (month int, year int) {
	now := time.Now()
	month = int(now.Month()) - 1
	year = now.Year()

	if m := c.Int("month"); m >= 0 && m <= 11 {
		month = m
	}
	if y := c.Int("year"); y > 0 {
		year = y
	}
	return month, year
}
