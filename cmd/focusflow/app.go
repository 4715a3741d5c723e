package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/yashwanthk/focusflow/internal/config"
	"github.com/yashwanthk/focusflow/internal/engine"
	"github.com/yashwanthk/focusflow/internal/models"
	"github.com/yashwanthk/focusflow/internal/remote"
	"github.com/yashwanthk/focusflow/internal/store"
)

// app wires the local store, remote client and sync engine for one CLI
// invocation.
type app struct {
	cfg    *config.Config
	db     *store.DB
	engine *engine.Engine
	user   models.User
}

func loadApp(configPath, userFlag string) (*app, error) {
	if configPath == "" {
		configPath = os.Getenv("FOCUSFLOW_CONFIG")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	userName := userFlag
	if userName == "" {
		userName = cfg.CurrentUser
	}
	user := models.User(userName)
	if userName != "" && !user.Valid() {
		return nil, fmt.Errorf("unknown user %q (want yashwanth or lahari)", userName)
	}

	logLevel := slog.LevelWarn
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	var client *remote.Client
	if cfg.RemoteBaseURL != "" {
		client = remote.NewClient(cfg.RemoteBaseURL, time.Duration(cfg.RemoteTimeoutSecs)*time.Second)
	}

	eng := engine.New(db, client, logger, engine.Options{
		RemoteTimeout:        time.Duration(cfg.RemoteTimeoutSecs) * time.Second,
		LegacySnapshotPath:   cfg.LegacySnapshotPath,
		DefaultTargetMinutes: cfg.DefaultTargetMinute,
	})
	eng.SetCurrentUser(user)

	if err := eng.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return &app{cfg: cfg, db: db, engine: eng, user: user}, nil
}

func (a *app) close() {
	a.engine.StopBackgroundSync()
	_ = a.db.Close()
}

func (a *app) requireUser() error {
	if a.user == "" {
		return fmt.Errorf("no user selected: pass --user or set currentUser in the config")
	}
	return nil
}
