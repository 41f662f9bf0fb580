package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/e-Diag/CalendarBot/internal/app"
	"github.com/e-Diag/CalendarBot/internal/cache"
	"github.com/e-Diag/CalendarBot/internal/credential"
	"github.com/e-Diag/CalendarBot/internal/model"
	"github.com/e-Diag/CalendarBot/internal/remote"
	"github.com/e-Diag/CalendarBot/internal/schedule"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "calendarbot:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}

	token, err := credential.Token()
	if err != nil || token == "" {
		return fmt.Errorf(
			"no planner token found: set %s or store one under %q (%v)",
			credential.TokenEnv, credential.TokenKey, err,
		)
	}
	session := model.Session{Token: token}

	timeout := time.Duration(cfg.Remote.TimeoutSec) * time.Second
	client := remote.NewClient(cfg.Remote.BaseURL, timeout)

	opts := schedule.Options{Strategy: cfg.Remote.SyncStrategy}
	if cfg.Remote.SyncStrategy == model.SyncStrategyLive {
		opts.Live = remote.NewLiveFeed(cfg.Remote.BaseURL)
	}

	// The snapshot cache is best-effort; run without it on failure.
	if db, err := cache.Open(model.DefaultCachePath()); err == nil {
		defer db.Close()
		opts.Cache = db
	}

	store := schedule.New(client, opts)
	defer store.Close()

	program := tea.NewProgram(
		app.New(store, session, cfg.Display),
		tea.WithAltScreen(),
	)
	_, err = program.Run()
	return err
}
