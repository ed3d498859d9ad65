package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pastefconnect/memberctl/internal/common"
	"github.com/pastefconnect/memberctl/internal/dbx"
)

// SQLiteStore keeps the session pair in a local sqlite key/value table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write session[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	return s.get(ctx, common.SessionKeyToken)
}

func (s *SQLiteStore) Phone(ctx context.Context) (string, error) {
	return s.get(ctx, common.SessionKeyPhone)
}

// Save writes both keys in one transaction so a crash between the two writes
// can never leave a token without its phone number.
func (s *SQLiteStore) Save(ctx context.Context, token, phone string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, common.SessionKeyToken, token); err != nil {
			return err
		}
		return set(ctx, tx, common.SessionKeyPhone, phone)
	})
}

// ClearToken removes the token only. Clearing an absent token is a no-op.
func (s *SQLiteStore) ClearToken(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, common.SessionKeyToken)
	if err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}
