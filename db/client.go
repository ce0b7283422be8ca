package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Client wraps a sql.DB holding the local production journal. The driver is
// modernc.org/sqlite (driver name "sqlite"), so no CGO is needed.
//
//	c, err := db.NewClient(Cfg.Database)
//	if err != nil { return err }
//	defer c.Close()
type Client struct {
	DB   *sql.DB
	Path string
}

// NewClient opens the SQLite database at path, verifies the connection and creates the
// journal table when it does not exist yet.
func NewClient(path string) (*Client, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// one writer is all a CLI needs and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	c := &Client{DB: db, Path: path}
	if err := c.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the underlying sql.DB. Safe to call multiple times or on a nil client.
func (c *Client) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
