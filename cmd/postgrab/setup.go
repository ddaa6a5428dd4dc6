package main

import (
	"context"
	"fmt"

	"postgrab/internal/command/builder"
	"postgrab/internal/command/execute"
	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/logger"
	"postgrab/internal/downloads"
	"postgrab/internal/ledger"
	"postgrab/internal/locate"
	"postgrab/internal/models"
	"postgrab/internal/utils/browser"
)

// initializeApplication opens the ledger and wires the orchestrator for this run.
//
// The returned func releases the ledger store and removes exported cookies.
func initializeApplication(ctx context.Context, s *models.Settings) (*downloads.Orchestrator, func(), error) {
	store, closeStore, err := openStore(s)
	if err != nil {
		return nil, nil, err
	}

	l, err := store.Load(ctx)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	logger.Pl.I("Ledger %q holds %d downloaded URLs", s.LedgerPath, l.Len())

	fetcher := execute.NewCommandExecutor(builder.FetchOptions{
		Tool:       s.Downloader,
		Args:       s.DownloaderArgs,
		CookieFile: s.CookieFile,
		Dir:        s.Dir,
	})
	cleanup := closeStore
	if s.CookiesBrowser && s.CookieFile == "" {
		cookies := browser.NewCookieExporter(s.Dir)
		fetcher.Cookies = cookies
		cleanup = func() {
			closeStore()
			if err := cookies.Remove(); err != nil {
				logger.Pl.W("Failed to remove exported cookie files: %v", err)
			}
		}
	}

	orch := downloads.NewOrchestrator(l, store, fetcher, locate.NewDirLocator(s.SettleDelay), s.Dir)
	orch.MaxAttempts = s.MaxAttempts
	orch.TimeFormat = s.TimeFormat
	orch.StrictLedger = s.StrictLedger
	orch.DryRun = s.DryRun

	return orch, cleanup, nil
}

// openStore returns the ledger store for the configured backend.
func openStore(s *models.Settings) (ledger.Store, func(), error) {
	switch s.LedgerBackend {
	case consts.BackendSQLite:
		db, err := ledger.OpenSQLiteStore(s.LedgerPath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() {
			if err := db.Close(); err != nil {
				logger.Pl.E("Failed to close ledger database: %v", err)
			}
		}, nil
	case consts.BackendJSON, "":
		return ledger.NewJSONStore(s.LedgerPath), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", s.LedgerBackend)
	}
}
