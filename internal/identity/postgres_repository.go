package identity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxDB is the subset of pgxpool.Pool the repository needs; it matches
// both the real pool and pgxmock pools.
type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores registered users in the relational
// database, for deployments where Redis only holds the session.
type PostgresRepository struct {
	db pgxDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("identity: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db pgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts a new registered user row.
func (r *PostgresRepository) Append(ctx context.Context, user User) error {
	query := `
		INSERT INTO users (id, name, email, phone, national_id, role, secret)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.NationalID,
		string(user.Role),
		user.Secret,
	); err != nil {
		return fmt.Errorf("identity: insert failed: %w", err)
	}
	return nil
}

// List returns registered users in registration order.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, name, email, phone, national_id, role, secret
		FROM users
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("identity: select failed: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.NationalID, &u.Role, &u.Secret); err != nil {
			return nil, fmt.Errorf("identity: scan failed: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("identity: rows failed: %w", err)
	}
	return users, nil
}

// FindByEmail returns the first registered user with the given e-mail,
// or nil when none matches.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, phone, national_id, role, secret
		FROM users
		WHERE email = $1
		ORDER BY created_at
		LIMIT 1
	`
	row := r.db.QueryRow(ctx, query, email)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.NationalID, &u.Role, &u.Secret); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("identity: select failed: %w", err)
	}
	return &u, nil
}
