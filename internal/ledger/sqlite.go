package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/errs"
	"postgrab/internal/domain/logger"

	"github.com/Masterminds/squirrel"

	// Package sqlite3 provides interface to SQLite3 databases.
	_ "github.com/mattn/go-sqlite3"
)

const (
	dbDriver = "sqlite3"

	tLedger   = "ledger"
	qPosition = "position"
	qURL      = "url"
	qAddedAt  = "added_at"
)

// SQLiteStore keeps the ledger in a SQLite table.
type SQLiteStore struct {
	DB   *sql.DB
	path string
}

// OpenSQLiteStore opens (creating if needed) the ledger database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open(dbDriver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at path %q: %w", path, err)
	}

	pragmas := []string{
		`PRAGMA journal_mode = WAL;`,
		fmt.Sprintf(`PRAGMA busy_timeout = %d;`, consts.DatabaseBusyTimeoutMs),
		`PRAGMA synchronous = NORMAL;`,
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", p, err)
		}
	}

	s := &SQLiteStore{DB: db, path: path}
	if err := s.initTable(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}

// initTable creates the ledger table if absent.
func (s *SQLiteStore) initTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS ` + tLedger + ` (
		` + qPosition + ` INTEGER PRIMARY KEY,
		` + qURL + ` TEXT UNIQUE NOT NULL,
		` + qAddedAt + ` TIMESTAMP NOT NULL
	);`
	_, err := s.DB.Exec(query)
	return err
}

// Load returns the stored URLs in order.
func (s *SQLiteStore) Load(ctx context.Context) (*Ledger, error) {
	query, args, err := squirrel.
		Select(qURL).
		From(tLedger).
		OrderBy(qPosition).
		ToSql()
	if err != nil {
		return nil, &errs.LedgerReadError{Path: s.path, Err: err}
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &errs.LedgerReadError{Path: s.path, Err: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Pl.E("Failed to close ledger rows: %v", err)
		}
	}()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, &errs.LedgerReadError{Path: s.path, Err: err}
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.LedgerReadError{Path: s.path, Err: err}
	}
	return New(urls...), nil
}

// Save rewrites the table to match l, keeping the original added_at of known URLs.
func (s *SQLiteStore) Save(ctx context.Context, l *Ledger) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Pl.E("Panic rollback failed for ledger save: %v", rbErr)
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Pl.E("Ledger rollback failed after original error %v: %v", err, rbErr)
			}
		}
	}()

	added, err := addedTimes(ctx, tx)
	if err != nil {
		return err
	}

	del, args, err := squirrel.Delete(tLedger).ToSql()
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("failed to clear ledger table: %w", err)
	}

	now := time.Now().UTC()
	for i, u := range l.URLs() {
		at, ok := added[u]
		if !ok {
			at = now
		}
		ins, args, err := squirrel.
			Insert(tLedger).
			Columns(qPosition, qURL, qAddedAt).
			Values(i, u, at).
			ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, ins, args...); err != nil {
			return fmt.Errorf("failed to insert ledger URL %q: %w", u, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	logger.Pl.D(2, "Saved %d ledger entries to %q", l.Len(), s.path)
	return nil
}

// addedTimes maps each stored URL to when it was first recorded.
func addedTimes(ctx context.Context, tx *sql.Tx) (map[string]time.Time, error) {
	query, args, err := squirrel.Select(qURL, qAddedAt).From(tLedger).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var (
			u  string
			at time.Time
		)
		if err := rows.Scan(&u, &at); err != nil {
			return nil, err
		}
		out[u] = at
	}
	return out, rows.Err()
}
