// Package repository persists terminal call records and recordings.
// Live call state never touches the database; only finished calls land here.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/billdispute/disputecall/internal/domain"
)

// Archive stores finished-call records.
type Archive interface {
	// SaveCallRecord inserts the record of a finished call.
	SaveCallRecord(ctx context.Context, rec *domain.CallRecord) error
	// UpdateOutcome attaches a post-hoc classification to a saved record.
	UpdateOutcome(ctx context.Context, recordID string, analysis domain.OutcomeAnalysis) error
	// SaveRecording associates a provider recording with a call.
	SaveRecording(ctx context.Context, rec *domain.Recording) error
	// ListRecordings returns the recordings saved for a call.
	ListRecordings(ctx context.Context, callSID string) ([]domain.Recording, error)
	// ListCallRecords returns all records for a dispute, newest first.
	ListCallRecords(ctx context.Context, disputeID string) ([]domain.CallRecord, error)
	// Close releases the underlying store.
	Close() error
}

// SQLiteArchive implements Archive using SQLite.
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLiteArchive creates a new SQLite archive.
func NewSQLiteArchive(dsn string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	a := &SQLiteArchive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return a, nil
}

var _ Archive = (*SQLiteArchive)(nil)

// migrate runs database migrations.
func (a *SQLiteArchive) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS call_records (
			record_id TEXT PRIMARY KEY,
			call_sid TEXT NOT NULL,
			dispute_id TEXT NOT NULL,
			status TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			transcript TEXT,
			outcome TEXT NOT NULL DEFAULT 'pending',
			summary TEXT,
			next_steps TEXT,
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_call_records_dispute ON call_records(dispute_id, ended_at)`,
		`CREATE INDEX IF NOT EXISTS idx_call_records_sid ON call_records(call_sid)`,
		`CREATE TABLE IF NOT EXISTS recordings (
			recording_sid TEXT PRIMARY KEY,
			call_sid TEXT NOT NULL,
			url TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recordings_call ON recordings(call_sid)`,
	}

	for _, m := range migrations {
		if _, err := a.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveCallRecord inserts the record of a finished call.
func (a *SQLiteArchive) SaveCallRecord(ctx context.Context, rec *domain.CallRecord) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO call_records (record_id, call_sid, dispute_id, status, duration_seconds, transcript, outcome, summary, next_steps, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RecordID, rec.CallSID, rec.DisputeID, string(rec.Status), rec.DurationSeconds,
		rec.Transcript, string(rec.Outcome), rec.Summary, rec.NextSteps, rec.StartedAt, rec.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert call record: %w", err)
	}
	return nil
}

// UpdateOutcome attaches a classification to a saved record.
func (a *SQLiteArchive) UpdateOutcome(ctx context.Context, recordID string, analysis domain.OutcomeAnalysis) error {
	res, err := a.db.ExecContext(ctx,
		`UPDATE call_records SET outcome = ?, summary = ?, next_steps = ? WHERE record_id = ?`,
		string(analysis.Outcome), analysis.Summary, analysis.NextSteps, recordID,
	)
	if err != nil {
		return fmt.Errorf("failed to update outcome: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("call record %s not found", recordID)
	}
	return nil
}

// SaveRecording associates a provider recording with a call.
func (a *SQLiteArchive) SaveRecording(ctx context.Context, rec *domain.Recording) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO recordings (recording_sid, call_sid, url, duration_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.RecordingSID, rec.CallSID, rec.URL, rec.DurationSeconds, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recording: %w", err)
	}
	return nil
}

// ListRecordings returns the recordings saved for a call.
func (a *SQLiteArchive) ListRecordings(ctx context.Context, callSID string) ([]domain.Recording, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT recording_sid, call_sid, url, duration_seconds, created_at
		 FROM recordings WHERE call_sid = ? ORDER BY created_at`,
		callSID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recordings: %w", err)
	}
	defer rows.Close()

	var recordings []domain.Recording
	for rows.Next() {
		var rec domain.Recording
		if err := rows.Scan(&rec.RecordingSID, &rec.CallSID, &rec.URL, &rec.DurationSeconds, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recording: %w", err)
		}
		recordings = append(recordings, rec)
	}
	return recordings, rows.Err()
}

// ListCallRecords returns all records for a dispute, newest first.
func (a *SQLiteArchive) ListCallRecords(ctx context.Context, disputeID string) ([]domain.CallRecord, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT record_id, call_sid, dispute_id, status, duration_seconds, transcript, outcome, summary, next_steps, started_at, ended_at
		 FROM call_records WHERE dispute_id = ? ORDER BY ended_at DESC`,
		disputeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query call records: %w", err)
	}
	defer rows.Close()

	var records []domain.CallRecord
	for rows.Next() {
		var rec domain.CallRecord
		var status, outcome string
		var transcript, summary, nextSteps sql.NullString
		var startedAt, endedAt time.Time
		if err := rows.Scan(&rec.RecordID, &rec.CallSID, &rec.DisputeID, &status, &rec.DurationSeconds,
			&transcript, &outcome, &summary, &nextSteps, &startedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("failed to scan call record: %w", err)
		}
		rec.Status = domain.CallStatus(status)
		rec.Outcome = domain.CallOutcome(outcome)
		rec.Transcript = transcript.String
		rec.Summary = summary.String
		rec.NextSteps = nextSteps.String
		rec.StartedAt = startedAt
		rec.EndedAt = endedAt
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the underlying store.
func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}
