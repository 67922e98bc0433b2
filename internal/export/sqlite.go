// Package export writes built tables to SQLite for downstream analysis.
package export

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pfrederiksen/bda-datasets/internal/football"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the database at path and initializes schema.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		dataset TEXT NOT NULL,
		seq INTEGER NOT NULL,
		year INTEGER NOT NULL,
		week INTEGER NOT NULL,
		home INTEGER NOT NULL CHECK (home IN (0, 1)),
		favorite INTEGER NOT NULL,
		underdog INTEGER NOT NULL,
		spread REAL NOT NULL,
		favorite_name TEXT NOT NULL,
		underdog_name TEXT NOT NULL,
		PRIMARY KEY (dataset, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_games_year ON games(dataset, year);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// WriteTable replaces the stored rows of dataset with the records of t.
// seq preserves the table order.
func (db *DB) WriteTable(ctx context.Context, dataset string, t *football.Table) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback() // nolint:errcheck
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM games WHERE dataset = ?`, dataset); err != nil {
		return fmt.Errorf("clearing rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (dataset, seq, year, week, home, favorite, underdog, spread, favorite_name, underdog_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t.Records {
		if _, err = stmt.ExecContext(ctx, dataset, i, r.Year, r.Week, r.Home,
			r.FavoriteScore, r.UnderdogScore, r.Spread, r.FavoriteName, r.UnderdogName); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// ReadTable loads the stored rows of dataset in their original order.
func (db *DB) ReadTable(ctx context.Context, dataset string) ([]football.AnnotatedGameRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT year, week, home, favorite, underdog, spread, favorite_name, underdog_name
		FROM games WHERE dataset = ? ORDER BY seq`, dataset)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()

	var out []football.AnnotatedGameRecord
	for rows.Next() {
		var r football.AnnotatedGameRecord
		if err := rows.Scan(&r.Year, &r.Week, &r.Home, &r.FavoriteScore, &r.UnderdogScore,
			&r.Spread, &r.FavoriteName, &r.UnderdogName); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
