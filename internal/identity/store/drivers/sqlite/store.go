package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	"github.com/tabwriterlabs/identity/internal/identity/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Every pooled connection to an in-memory DSN gets its own empty
	// database, so pin the pool to a single connection there.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() store.Users { return &usersRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// isUniqueViolation detects sqlite unique constraint failures without tying
// the repo to the driver's error type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (domain.User, error) {
	var (
		u                domain.User
		passwordHash     sql.NullString
		refreshTokenHash sql.NullString
		role             string
		provider         string
		createdAt        time.Time
		updatedAt        time.Time
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&passwordHash,
		&role,
		&provider,
		&u.EmailVerified,
		&u.Active,
		&u.Blocked,
		&refreshTokenHash,
		&u.TokenVersion,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.PasswordHash = mapNullStringPtr(passwordHash)
	u.RefreshTokenHash = mapNullStringPtr(refreshTokenHash)
	u.Role = domain.Role(role)
	u.Provider = domain.Provider(provider)
	u.CreatedAt = createdAt
	u.UpdatedAt = updatedAt
	return u, nil
}
