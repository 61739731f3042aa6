// Command madrasa-export renders a statement for a date range and appends it
// to the configured Google spreadsheet. Meant to be run from cron or by hand
// at month end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"madrasa/internal/config"
	"madrasa/internal/core"
	gexport "madrasa/internal/export/google"
	applog "madrasa/internal/log"
	"madrasa/internal/render"
	"madrasa/internal/report"
	"madrasa/internal/storage"
	"madrasa/internal/store"
	mem "madrasa/internal/store/memory"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentExport)
	applog.SetDefault(logger)

	now := time.Now()
	defStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(core.DateLayout)
	defEnd := now.Format(core.DateLayout)

	startFlag := flag.String("start", defStart, "range start (YYYY-MM-DD, inclusive)")
	endFlag := flag.String("end", defEnd, "range end (YYYY-MM-DD, inclusive)")
	flag.Parse()

	start, err := core.ParseDate(*startFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -start: %v\n", err)
		os.Exit(2)
	}
	end, err := core.ParseDate(*endFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -end: %v\n", err)
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var (
		querier  store.TransactionQuerier
		students store.StudentStore
		staff    store.StaffStore
	)
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite repository",
				applog.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		querier, students, staff = repo, repo, repo
	default:
		st := mem.New()
		querier, students, staff = st, st, st
	}

	extractor := report.NewExtractor(querier, logger)
	ext, err := extractor.Refresh(ctx, start, end)
	if err != nil {
		logger.Error("Failed to build report extract", applog.FieldError, err.Error())
		os.Exit(1)
	}

	roster, err := students.ListStudents(ctx)
	if err != nil {
		logger.Warn("Failed to load student roster", applog.FieldError, err.Error())
	}
	staffList, err := staff.ListStaff(ctx)
	if err != nil {
		logger.Warn("Failed to load staff roster", applog.FieldError, err.Error())
	}

	st := render.BuildStatement(ext, roster, staffList, render.Options{
		Title:    cfg.InstitutionName,
		Subtitle: cfg.InstitutionAddress,
	})

	sheets, err := gexport.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err.Error())
		os.Exit(1)
	}
	if err := sheets.AppendStatement(ctx, st); err != nil {
		logger.Error("Failed to export statement", applog.FieldError, err.Error())
		os.Exit(1)
	}

	logger.Info("Statement exported",
		applog.FieldRangeStart, start.String(),
		applog.FieldRangeEnd, end.String(),
		applog.FieldCount, len(st.Rows))
}
