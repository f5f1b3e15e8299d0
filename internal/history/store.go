package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"menumerge/internal/config"
	"menumerge/internal/entity"
)

// timestampLayout is fixed width so created_at sorts lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database under the data directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// RestaurantRun is the input to RecordRestaurantRun. An empty ID is
// replaced with a generated one.
type RestaurantRun struct {
	ID         string
	InputA     string
	InputB     string
	Assignment string
	Summary    Summary
	Records    []entity.MergedRecord
}

// MenuRun is the input to RecordMenuRun.
type MenuRun struct {
	ID    string
	Input string
	Items []entity.ExtractionCandidate
}

// RecordRestaurantRun stores a linkage run and its merged records atomically.
func (s *Store) RecordRestaurantRun(ctx context.Context, in RestaurantRun) (*Run, error) {
	run := newRun(in.ID, KindRestaurants, in.InputA, in.InputB, in.Assignment, in.Summary)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertRun(ctx, tx, run); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_records (
            run_id, position, record_id, name, data_sources, quality_score, match_confidence, payload
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare record insert: %w", err)
		}
		defer stmt.Close()

		for i, rec := range in.Records {
			payload, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode record %s: %w", rec.ID, err)
			}
			var confidence any
			if rec.MatchConfidence > 0 {
				confidence = rec.MatchConfidence
			}
			if _, err := stmt.ExecContext(ctx,
				run.ID, i, rec.ID, nullableString(rec.Name()),
				strings.Join(rec.DataSources, ","), rec.QualityScore, confidence, string(payload),
			); err != nil {
				return fmt.Errorf("insert record %s: %w", rec.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// RecordMenuRun stores a menu fusion run and its items atomically.
func (s *Store) RecordMenuRun(ctx context.Context, in MenuRun) (*Run, error) {
	run := newRun(in.ID, KindMenu, in.Input, "", "", Summary{TotalRecords: len(in.Items)})

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertRun(ctx, tx, run); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_menu_items (
            run_id, position, name, confidence, sources, payload
        ) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare menu item insert: %w", err)
		}
		defer stmt.Close()

		for i, item := range in.Items {
			payload, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("encode menu item %q: %w", item.RawName, err)
			}
			if _, err := stmt.ExecContext(ctx,
				run.ID, i, item.RawName, item.Confidence, strings.Join(item.OriginTags, ","), string(payload),
			); err != nil {
				return fmt.Errorf("insert menu item %q: %w", item.RawName, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

const runColumns = `id, kind, created_at, input_a, input_b, assignment,
    total_records, matches, unmatched_a, unmatched_b, match_rate, average_confidence, average_quality`

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun fetches one run by ID. Unknown IDs yield a *NotFoundError.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	return run, err
}

// RunRecords returns the merged records stored with a restaurant run, in output order.
func (s *Store) RunRecords(ctx context.Context, id string) ([]entity.MergedRecord, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT payload FROM run_records WHERE run_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("query run records: %w", err)
	}
	defer rows.Close()

	records := make([]entity.MergedRecord, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		var rec entity.MergedRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("decode run record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run records: %w", err)
	}
	return records, nil
}

// RunMenuItems returns the fused menu items stored with a menu run, in output order.
func (s *Store) RunMenuItems(ctx context.Context, id string) ([]entity.ExtractionCandidate, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT payload FROM run_menu_items WHERE run_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("query run menu items: %w", err)
	}
	defer rows.Close()

	items := make([]entity.ExtractionCandidate, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		var item entity.ExtractionCandidate
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, fmt.Errorf("decode menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}
	return items, nil
}

// DeleteRun removes a run and its stored outputs.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func newRun(id string, kind Kind, inputA, inputB, assignment string, summary Summary) *Run {
	if id == "" {
		id = uuid.NewString()
	}
	return &Run{
		ID:         id,
		Kind:       kind,
		CreatedAt:  time.Now().UTC(),
		InputA:     inputA,
		InputB:     inputB,
		Assignment: assignment,
		Summary:    summary,
	}
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func insertRun(ctx context.Context, tx *sql.Tx, run *Run) error {
	sum := run.Summary
	_, err := tx.ExecContext(ctx, `INSERT INTO runs (`+runColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Kind), run.CreatedAt.Format(timestampLayout),
		nullableString(run.InputA), nullableString(run.InputB), nullableString(run.Assignment),
		sum.TotalRecords, sum.Matches, sum.UnmatchedA, sum.UnmatchedB,
		sum.MatchRate, sum.AverageConfidence, sum.AverageQuality,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		kind       string
		createdRaw string
		inputA     sql.NullString
		inputB     sql.NullString
		assignment sql.NullString
	)
	err := scanner.Scan(
		&run.ID, &kind, &createdRaw, &inputA, &inputB, &assignment,
		&run.Summary.TotalRecords, &run.Summary.Matches, &run.Summary.UnmatchedA, &run.Summary.UnmatchedB,
		&run.Summary.MatchRate, &run.Summary.AverageConfidence, &run.Summary.AverageQuality,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Kind = Kind(kind)
	run.InputA = inputA.String
	run.InputB = inputB.String
	run.Assignment = assignment.String
	created, err := time.Parse(timestampLayout, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("parse run timestamp: %w", err)
	}
	run.CreatedAt = created
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
