package main

import (
	"context"
	"flag"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/clinicboard/calgrid/pkg/config"
	"github.com/clinicboard/calgrid/pkg/domain/calendar"
	"github.com/clinicboard/calgrid/pkg/domain/grid"
	"github.com/clinicboard/calgrid/pkg/repository/model"
	pgstore "github.com/clinicboard/calgrid/pkg/repository/store"
)

func main() {
	configPath := flag.String("config", "cmd/calgrid/etc/app.yml", "path to config file")
	demo := flag.Bool("demo", false, "run against an in-memory seed instead of Postgres")
	flag.Parse()

	logFile, err := os.OpenFile("calgrid.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logFile = os.Stderr
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: logFile, NoColor: true}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("load config")
		os.Exit(1)
	}

	logger.Info().
		Int("start_hour", cfg.Grid.StartHour).
		Int("end_hour", cfg.Grid.EndHour).
		Int("snap_minutes", cfg.Grid.SnapMinutes).
		Str("refresh", cfg.Refresh).
		Bool("demo", *demo).
		Msg("effective config")

	ctx := context.Background()

	var repo model.Repo
	if *demo || cfg.PostgresDSN == "" {
		repo = newSeedRepo(time.Now())
		logger.Info().Msg("using in-memory seed repository")
	} else {
		pg, err := pgstore.NewRepo(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Error().Err(err).Msg("connect postgres")
			os.Exit(1)
		}
		defer pg.Close()
		repo = pg
	}

	store := calendar.NewStore(nil)
	committer := calendar.NewCommitter(repo, store, logger)
	undo := calendar.NewUndoBuffer(repo, store, 0, logger)
	defer undo.Close()

	geo := grid.Geometry{
		StartHour:   cfg.Grid.StartHour,
		EndHour:     cfg.Grid.EndHour,
		SnapMinutes: cfg.Grid.SnapMinutes,
		// Terminal surface: one text row is the pixel unit.
		CellHeight:     rowsPerHour,
		MinEventHeight: 1,
		FullDetailMin:  4,
		TimeMin:        3,
		TitleMin:       2,
	}.Normalize()

	ui := newUI(store, committer, undo, repo, geo, logger)
	prog := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithMouseAllMotion())

	// Periodic re-fetch of the visible range (the grid also refetches on
	// navigation).
	sched := cron.New()
	if _, err := sched.AddFunc(cfg.Refresh, func() {
		prog.Send(refetchMsg{})
	}); err != nil {
		logger.Error().Err(err).Str("spec", cfg.Refresh).Msg("invalid refresh schedule")
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	if _, err := prog.Run(); err != nil {
		logger.Error().Err(err).Msg("program failed")
		os.Exit(1)
	}
}
