package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/amaumene/rakuroku/internal/config"
	"github.com/amaumene/rakuroku/internal/models"
	"github.com/amaumene/rakuroku/internal/services/anilist"
	"github.com/amaumene/rakuroku/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app holds what every command needs, built once per invocation
type app struct {
	cfg     *config.Config
	logger  *logrus.Logger
	db      *models.Database
	session *anilist.Session
	client  *anilist.Client
	out     io.Writer
}

func newApp(out io.Writer) (*app, error) {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.WithField("config_dir", filepath.Dir(cfg.CredentialsFile)).Debug("Configuration loaded")

	// 3. Open the credential store and restore the session
	db, err := models.NewDatabase(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	session, err := anilist.NewSession(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	// 4. Initialize the API client
	client, err := anilist.NewClient(cfg, session, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize AniList client: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		session: session,
		client:  client,
		out:     out,
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close credential store")
	}
}

func (a *app) requireUserName() error {
	return a.cfg.RequireUserName()
}

func (a *app) requireLogin() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("%w: run `rakuroku login` first", anilist.ErrNotAuthenticated)
	}
	return nil
}

// withApp wraps a command body so it runs against a freshly built app
func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, a, args)
	}
}
