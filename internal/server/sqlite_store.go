package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/shopster/internal/logging"
	"github.com/Makepad-fr/shopster/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL,
	category   TEXT    NOT NULL,
	is_in_cart INTEGER NOT NULL DEFAULT 0
);`

// SQLiteStore keeps the collection in a SQLite file so `serve` survives restarts.
type SQLiteStore struct {
	db  *sql.DB
	log *logging.Logger
}

// OpenSQLiteStore opens (creating if needed) the database at path.
func OpenSQLiteStore(path string, logger *logging.Logger) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Single connection serializes writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	logger.Info("database ready", "subsystem", "database", "path", path)
	return &SQLiteStore{db: db, log: logger}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Seed inserts items (keeping their ids) when the table is empty.
func (s *SQLiteStore) Seed(ctx context.Context, items []model.Item) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, it := range items {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO items (id, name, category, is_in_cart) VALUES (?, ?, ?, ?)`,
			it.ID, it.Name, string(it.Category), it.IsInCart); err != nil {
			return fmt.Errorf("seed item %d: %w", it.ID, err)
		}
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, category, is_in_cart FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) Create(ctx context.Context, d model.Draft) (model.Item, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO items (name, category, is_in_cart) VALUES (?, ?, ?)`,
		d.Name, string(d.Category), d.IsInCart)
	if err != nil {
		return model.Item{}, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Item{}, fmt.Errorf("last insert id: %w", err)
	}
	return d.Item(int(id)), nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int, ch model.Changes) (model.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Item{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	it, err := scanItem(tx.QueryRowContext(ctx,
		`SELECT id, name, category, is_in_cart FROM items WHERE id = ?`, id))
	if err != nil {
		return model.Item{}, err
	}
	it = ch.Apply(it)
	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET name = ?, category = ?, is_in_cart = ? WHERE id = ?`,
		it.Name, string(it.Category), it.IsInCart, id); err != nil {
		return model.Item{}, fmt.Errorf("update item %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return model.Item{}, fmt.Errorf("commit: %w", err)
	}
	return it, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (model.Item, error) {
	var (
		it       model.Item
		category string
	)
	if err := row.Scan(&it.ID, &it.Name, &category, &it.IsInCart); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, ErrNotFound
		}
		return model.Item{}, fmt.Errorf("scan item: %w", err)
	}
	it.Category = model.Category(category)
	return it, nil
}
