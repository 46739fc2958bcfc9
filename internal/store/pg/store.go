package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ZR1ck/Auth-Service/internal/auth"
)

// uniqueViolation is the PostgreSQL error code raised when the
// accounts.username constraint fires.
const uniqueViolation = "23505"

// Store implements auth.CredentialStore on PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ auth.CredentialStore = (*Store)(nil)

// Open connects to PostgreSQL with pool defaults tuned for the API
// workload.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing connection pool. Used by tests.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the pool for readiness probes.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from accounts where username=$1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*auth.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, username, password, role from accounts where username=$1`, username)
	return scanAccount(row)
}

func (s *Store) FindByID(ctx context.Context, id int64) (*auth.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, username, password, role from accounts where id=$1`, id)
	return scanAccount(row)
}

func (s *Store) Insert(ctx context.Context, username, passwordHash, role string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`insert into accounts(username, password, role) values($1,$2,$3)`,
		username, passwordHash, role,
	)
	if err != nil {
		// The unique constraint is the backstop for the race between
		// the service-level existence check and this insert.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, auth.ErrConflict
		}
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) List(ctx context.Context) ([]*auth.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, username, password, role from accounts order by id asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*auth.Account
	for rows.Next() {
		var acc auth.Account
		if err := rows.Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.Role); err != nil {
			return nil, err
		}
		res = append(res, &acc)
	}
	return res, rows.Err()
}

func scanAccount(row *sql.Row) (*auth.Account, error) {
	var acc auth.Account
	if err := row.Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}
