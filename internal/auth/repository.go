package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/solenne/atelier/internal/apperror"
)

// mysqlDupEntry is the MariaDB error number for a unique-key violation.
// Two concurrent registrations of the same username serialize on the unique
// index; the loser surfaces this number.
const mysqlDupEntry = 1062

// UserRepository defines the data access contract for user records.
// All SQL lives in the concrete implementation -- no SQL leaks out.
//
// Lookup methods return (nil, nil) when no row matches; a non-nil error
// always means the store itself failed. Callers must never fold the two
// together.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Insert(ctx context.Context, username, passwordHash string) (int64, error)

	// Serving the JSON API.
	List(ctx context.Context) ([]User, error)
	UpdateProfileText(ctx context.Context, id int64, content string) (bool, error)
}

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUsername retrieves a user by exact, case-sensitive username match.
// The column carries a binary collation so the database agrees with this
// contract; no normalization happens here.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT id, username, password_hash, profile_text, created_at
	          FROM users WHERE username = ?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, username), "querying user by username")
}

// FindByID retrieves a user by primary key.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT id, username, password_hash, profile_text, created_at
	          FROM users WHERE id = ?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "querying user by id")
}

// scanOne scans a single user row, mapping sql.ErrNoRows to (nil, nil).
func (r *userRepository) scanOne(row *sql.Row, op string) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.ProfileText,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Insert creates a new user row and returns its generated id. A duplicate
// username surfaces as apperror Conflict via the unique index -- the caller
// can rely on the type, not on string matching.
func (r *userRepository) Insert(ctx context.Context, username, passwordHash string) (int64, error) {
	query := `INSERT INTO users (username, password_hash) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, username, passwordHash)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDupEntry {
			return 0, apperror.NewConflict("username already taken")
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted user id: %w", err)
	}
	return id, nil
}

// List returns all users ordered by id. Password hashes stay in the struct
// but are excluded from JSON by the model's tags; the query still selects
// only what the API exposes.
func (r *userRepository) List(ctx context.Context) ([]User, error) {
	query := `SELECT id, username FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// UpdateProfileText sets a user's profile text. Returns false when no user
// with the given id exists.
func (r *userRepository) UpdateProfileText(ctx context.Context, id int64, content string) (bool, error) {
	query := `UPDATE users SET profile_text = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, content, id)
	if err != nil {
		return false, fmt.Errorf("updating profile text: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return n > 0, nil
}
