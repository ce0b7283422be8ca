package db

import (
	"context"
	"fmt"
	"time"
)

const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
)

// Production is one journal entry: a production request and how the backend answered it.
type Production struct {
	ID         int64
	RequestID  string
	RecipeID   int
	RecipeName string
	Batches    int
	Status     string
	Message    string
	CreatedAt  time.Time
}

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS productions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id  TEXT    NOT NULL,
	recipe_id   INTEGER NOT NULL,
	recipe_name TEXT    NOT NULL,
	batches     INTEGER NOT NULL,
	status      TEXT    NOT NULL,
	message     TEXT    NOT NULL DEFAULT '',
	created_at  TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS productions_created_at ON productions (created_at);
`

// Migrate creates the journal schema.
func (c *Client) Migrate() error {
	if _, err := c.DB.Exec(schema); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}
	return nil
}

// RecordProduction appends an entry. A zero CreatedAt is stamped with the current time.
func (c *Client) RecordProduction(ctx context.Context, p Production) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	_, err := c.DB.ExecContext(ctx,
		`INSERT INTO productions (request_id, recipe_id, recipe_name, batches, status, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.RequestID, p.RecipeID, p.RecipeName, p.Batches, p.Status, p.Message,
		p.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record production: %w", err)
	}
	return nil
}

// ListProductions returns the newest entries first. limit <= 0 returns everything.
func (c *Client) ListProductions(ctx context.Context, limit int) ([]Production, error) {
	q := `SELECT id, request_id, recipe_id, recipe_name, batches, status, message, created_at
	      FROM productions ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := c.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Production
	for rows.Next() {
		var p Production
		var created string
		if err := rows.Scan(&p.ID, &p.RequestID, &p.RecipeID, &p.RecipeName, &p.Batches, &p.Status, &p.Message, &created); err != nil {
			return nil, fmt.Errorf("scan production: %w", err)
		}
		p.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parse production time %q: %w", created, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	return out, nil
}
