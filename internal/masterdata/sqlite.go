// Package masterdata provides the read-only client/bike/category lookups
// the register core consults. The sqlite database is owned and written by
// the client-registration side of the system; the core only reads it.
package masterdata

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/rlourenco/bicicletario/internal/common"
	"github.com/rlourenco/bicicletario/internal/dbx"
	"github.com/rlourenco/bicicletario/internal/masterdata/migrations"
	"github.com/rlourenco/bicicletario/internal/models"
)

// OpenDatabase opens (creating if needed) the master-data sqlite file and
// brings its schema up to date.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return db, nil
}

// SQLiteRepository implements the master-data lookups over a DBTX
// (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// FindClientByID returns the client and their bikes, or common.ErrNotFound.
func (r *SQLiteRepository) FindClientByID(ctx context.Context, id string) (*models.Client, error) {
	query := `SELECT id, name, document, category FROM clients WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	c := &models.Client{}
	if err := row.Scan(&c.ID, &c.Name, &c.Document, &c.Category); err != nil {
		if err == sql.ErrNoRows {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}

	bikes, err := r.bikesForClient(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Bikes = bikes
	return c, nil
}

// ListClients returns all clients with their bikes, ordered by name.
func (r *SQLiteRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, document, category FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select clients: %w", err)
	}
	defer rows.Close()

	var result []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Document, &c.Category); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		bikes, err := r.bikesForClient(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Bikes = bikes
	}
	return result, nil
}

// LoadCategories returns the category name → icon mapping used to decorate
// summaries. Missing mappings are tolerated by callers.
func (r *SQLiteRepository) LoadCategories(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, icon FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var name, icon string
		if err := rows.Scan(&name, &icon); err != nil {
			return nil, err
		}
		result[name] = icon
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) bikesForClient(ctx context.Context, clientID string) ([]models.Bike, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, model, brand, color FROM bikes WHERE client_id = ? ORDER BY id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to select bikes: %w", err)
	}
	defer rows.Close()

	var bikes []models.Bike
	for rows.Next() {
		var b models.Bike
		if err := rows.Scan(&b.ID, &b.Model, &b.Brand, &b.Color); err != nil {
			return nil, err
		}
		bikes = append(bikes, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bikes, nil
}
