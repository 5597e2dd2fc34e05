package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerbook/internal/activity"
	"github.com/cleared-dev/ledgerbook/internal/books"
	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/logging"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

// project is the directory every command works in, set by the --dir flag.
type project struct {
	dir string
}

// session is an opened project: its config, logger, store and books service.
type session struct {
	root     string
	cfg      *config.Config
	log      *zap.Logger
	db       *store.Bolt
	activity *activity.Log
	books    *books.Service
}

func (p *project) abs() (string, error) {
	root, err := filepath.Abs(p.dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return root, nil
}

// open loads <dir>/ledgerbook.yaml, overlays LEDGERBOOK_* settings from <dir>/.env and the
// environment, and opens the store.
func (p *project) open() (*session, error) {
	root, err := p.abs()
	if err != nil {
		return nil, err
	}
	return openSession(root)
}

func openSession(root string) (*session, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no %s in %s (run `ledgerbook init` first)", config.FileName, root)
		}
		return nil, err
	}
	if err := cfg.ApplyEnv(filepath.Join(root, ".env")); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dbPath := cfg.Store.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(root, dbPath)
	}
	db, err := store.OpenBolt(dbPath)
	if err != nil {
		return nil, err
	}

	act := activity.NewLog(root, cfg.Log.Actor)
	svc := books.New(db, books.Options{
		CashAccountID: cfg.Ledger.CashAccountID,
		Location:      loc,
		Activity:      act,
		Logger:        log,
	})
	return &session{root: root, cfg: cfg, log: log, db: db, activity: act, books: svc}, nil
}

func (s *session) Close() error {
	_ = s.log.Sync()
	return s.db.Close()
}

// run adapts fn into a cobra RunE that opens the project first and closes it afterwards.
func (p *project) run(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := p.open()
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}
