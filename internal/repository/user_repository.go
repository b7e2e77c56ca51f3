package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"table-reservation-service/internal/model"
)

// UserRepo provides access to the users table.  Users are keyed by
// contact identity: email and phone number each carry a UNIQUE
// constraint, which backs the upsert performed by the commit pipeline.
// All write methods operate inside a caller-supplied transaction so the
// upsert and the subsequent reservation insert commit or roll back as
// one unit.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// normalizeEmail lower-cases and trims an email address so equality
// matches behave the same in Go and in the database.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByContactTx looks up a user matching the given email OR phone
// (inclusive OR).  sql.ErrNoRows is returned when neither matches.
// DATETIME columns arrive as strings (the DSN does not set parseTime)
// and are parsed in the local location like every other timestamp.
func (r *UserRepo) FindByContactTx(ctx context.Context, tx *sql.Tx, email, phone string) (model.User, error) {
	const q = `SELECT id, name, email, phone_number, created_at, updated_at
               FROM users WHERE email = ? OR phone_number = ? LIMIT 1`
	var u model.User
	var createdStr, updatedStr string
	err := tx.QueryRowContext(ctx, q, normalizeEmail(email), phone).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &createdStr, &updatedStr)
	if err != nil {
		return model.User{}, err
	}
	if u.CreatedAt, err = time.ParseInLocation(dbDateTime, createdStr, time.Local); err != nil {
		return model.User{}, err
	}
	if u.UpdatedAt, err = time.ParseInLocation(dbDateTime, updatedStr, time.Local); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// InsertTx creates a new user row and returns its generated ID.  A
// uniqueness violation on email or phone is reported as ErrDuplicateKey
// so the caller can retry the upsert as an update.
func (r *UserRepo) InsertTx(ctx context.Context, tx *sql.Tx, name, email, phone string) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (name, email, phone_number) VALUES (?,?,?)",
		name, normalizeEmail(email), phone)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicateKey
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateTx refreshes an existing user's name, email and phone to the
// latest submitted values (last-write-wins upsert semantics).
func (r *UserRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, name, email, phone string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, phone_number = ? WHERE id = ?",
		name, normalizeEmail(email), phone, id)
	if isDuplicateKey(err) {
		return ErrDuplicateKey
	}
	return err
}
