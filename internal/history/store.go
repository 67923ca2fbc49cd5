// Package history keeps an audit trail of apply operations in SQLite. The
// pre-apply snapshot of each operation is kept so it can be reverted later.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/port"
	"netprofiler/internal/types"

	_ "modernc.org/sqlite"
)

// DefaultRetention is used when no positive retention is configured.
const DefaultRetention = 90 * 24 * time.Hour

// Entry is one recorded apply or revert.
type Entry struct {
	ID                int64                    `json:"id"`
	Time              time.Time                `json:"time"`
	Interface         string                   `json:"interface"`
	ProfileID         string                   `json:"profile_id,omitempty"`
	ProfileName       string                   `json:"profile_name,omitempty"`
	Outcome           types.Outcome            `json:"outcome"`
	Error             string                   `json:"error,omitempty"`
	Target            types.AddressingState    `json:"target"`
	Snapshot          *types.InterfaceSnapshot `json:"snapshot,omitempty"`
	RollbackAttempted bool                     `json:"rollback_attempted"`
	RollbackSucceeded bool                     `json:"rollback_succeeded"`
	VerifyAttempts    int                      `json:"verify_attempts"`
	Duration          time.Duration            `json:"duration"`
}

// IsRevert reports whether the entry records a manual revert.
func (e Entry) IsRevert() bool {
	return e.ProfileID == ""
}

// Store persists entries in the apply_history table.
type Store struct {
	mu        sync.RWMutex
	db        *sql.DB
	retention time.Duration
	now       func() time.Time
}

// Ensure Store implements the ApplyRecorder port
var _ port.ApplyRecorder = (*Store)(nil)

// Open opens or creates the history database at path.
func Open(path string, retention time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// One writer at a time keeps SQLITE_BUSY away.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS apply_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at INTEGER NOT NULL,
			interface TEXT NOT NULL,
			profile_id TEXT NOT NULL DEFAULT '',
			profile_name TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			target TEXT NOT NULL,
			snapshot TEXT,
			rollback_attempted INTEGER NOT NULL DEFAULT 0,
			rollback_succeeded INTEGER NOT NULL DEFAULT 0,
			verify_attempts INTEGER NOT NULL DEFAULT 0,
			duration_ns INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_history_interface ON apply_history(interface, recorded_at);
		CREATE INDEX IF NOT EXISTS idx_history_recorded_at ON apply_history(recorded_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create history table: %w", err)
	}

	if retention <= 0 {
		retention = DefaultRetention
	}

	return &Store{db: db, retention: retention, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a finished operation.
func (s *Store) Record(ctx context.Context, result *types.ApplyResult) error {
	if result == nil {
		return nil
	}

	target, err := json.Marshal(result.Target)
	if err != nil {
		return fmt.Errorf("encode target: %w", err)
	}
	var snapshot sql.NullString
	if result.Snapshot != nil {
		data, err := json.Marshal(result.Snapshot)
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		snapshot = sql.NullString{String: string(data), Valid: true}
	}

	recordedAt := result.FinishedAt
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO apply_history (recorded_at, interface, profile_id, profile_name, outcome, error,
			target, snapshot, rollback_attempted, rollback_succeeded, verify_attempts, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, recordedAt.UnixNano(), result.Interface, result.ProfileID, result.ProfileName, string(result.Outcome),
		errorText(result), string(target), snapshot, result.RollbackAttempted, result.RollbackSucceeded,
		result.VerifyAttempts, int64(result.Duration()))
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	logging.WithComponentAndInterface("history", result.Interface).WithField("outcome", result.Outcome).Debug("Apply result recorded")
	return nil
}

func errorText(result *types.ApplyResult) string {
	if err := errors.Join(result.Err, result.RollbackErr); err != nil {
		return err.Error()
	}
	return ""
}

const selectColumns = `SELECT id, recorded_at, interface, profile_id, profile_name, outcome, error,
	target, snapshot, rollback_attempted, rollback_succeeded, verify_attempts, duration_ns
	FROM apply_history`

// List returns the newest entries first, for one interface or for all when
// iface is empty. A limit of zero or less returns every entry.
func (s *Store) List(ctx context.Context, iface string, limit int) ([]Entry, error) {
	query := selectColumns
	var args []any
	if iface != "" {
		query += " WHERE interface = ?"
		args = append(args, iface)
	}
	query += " ORDER BY recorded_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return entries, nil
}

// Last returns the newest successful profile apply on iface, the one a
// revert undoes. Reverts themselves are skipped.
func (s *Store) Last(ctx context.Context, iface string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectColumns+`
		WHERE interface = ? AND outcome = ? AND profile_id != '' AND snapshot IS NOT NULL
		ORDER BY recorded_at DESC, id DESC LIMIT 1`, iface, string(types.OutcomeApplied))

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewNotFoundError(fmt.Sprintf("no recorded apply on interface %q", iface))
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Prune deletes entries older than the retention period.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.retention)
	result, err := s.db.ExecContext(ctx, "DELETE FROM apply_history WHERE recorded_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	n, _ := result.RowsAffected()
	if n > 0 {
		logging.WithComponent("history").WithField("removed", n).Info("Pruned old history entries")
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e          Entry
		recordedAt int64
		outcome    string
		target     string
		snapshot   sql.NullString
		durationNs int64
	)
	err := row.Scan(&e.ID, &recordedAt, &e.Interface, &e.ProfileID, &e.ProfileName, &outcome, &e.Error,
		&target, &snapshot, &e.RollbackAttempted, &e.RollbackSucceeded, &e.VerifyAttempts, &durationNs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan history entry: %w", err)
	}

	e.Time = time.Unix(0, recordedAt)
	e.Outcome = types.Outcome(outcome)
	e.Duration = time.Duration(durationNs)
	if err := json.Unmarshal([]byte(target), &e.Target); err != nil {
		return Entry{}, fmt.Errorf("decode target of entry %d: %w", e.ID, err)
	}
	if snapshot.Valid {
		var snap types.InterfaceSnapshot
		if err := json.Unmarshal([]byte(snapshot.String), &snap); err != nil {
			return Entry{}, fmt.Errorf("decode snapshot of entry %d: %w", e.ID, err)
		}
		e.Snapshot = &snap
	}
	return e, nil
}
