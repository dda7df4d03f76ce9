package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/rlourenco/bicicletario/internal/dbx"
	"github.com/rlourenco/bicicletario/internal/models"
	"github.com/rlourenco/bicicletario/internal/storage/migrations"
)

// PostgresStore persists the entry list in PostgreSQL. Each save rewrites
// the whole table inside one transaction, mirroring the
// full-list-per-mutation persistence contract, with an explicit position
// column preserving insertion order across reloads.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the database and runs the embedded migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) SaveEntries(ctx context.Context, entries []models.Entry) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
			return fmt.Errorf("clear entries: %w", err)
		}

		query := `
			INSERT INTO entries (id, position, client_id, bike_id,
				bike_model, bike_brand, bike_color, category,
				entry_ts, exit_ts, access_removed,
				overnight, overnight_entry_id, original_entry_id, original_entry_ts)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`
		for i, e := range entries {
			_, err := tx.ExecContext(ctx, query,
				e.ID, i, e.ClientID, e.BikeID,
				e.BikeSnapshot.Model, e.BikeSnapshot.Brand, e.BikeSnapshot.Color, e.Category,
				e.EntryTimestamp, nullTime(e.ExitTimestamp), e.AccessRemoved,
				e.Overnight, e.OvernightEntryID, e.OriginalEntryID, nullTime(e.OriginalEntryTimestamp),
			)
			if err != nil {
				return fmt.Errorf("insert entry %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) LoadEntries(ctx context.Context) ([]models.Entry, error) {
	query := `
		SELECT id, client_id, bike_id,
			bike_model, bike_brand, bike_color, category,
			entry_ts, exit_ts, access_removed,
			overnight, overnight_entry_id, original_entry_id, original_entry_ts
		FROM entries ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var e models.Entry
		var exitTS, originalTS sql.NullTime
		if err := rows.Scan(
			&e.ID, &e.ClientID, &e.BikeID,
			&e.BikeSnapshot.Model, &e.BikeSnapshot.Brand, &e.BikeSnapshot.Color, &e.Category,
			&e.EntryTimestamp, &exitTS, &e.AccessRemoved,
			&e.Overnight, &e.OvernightEntryID, &e.OriginalEntryID, &originalTS,
		); err != nil {
			return nil, err
		}
		// Timestamps come back in the session timezone; bucketing wants
		// local calendar dates.
		e.EntryTimestamp = e.EntryTimestamp.Local()
		e.ExitTimestamp = timePtr(exitTS)
		e.OriginalEntryTimestamp = timePtr(originalTS)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	local := t.Time.Local()
	return &local
}
