package repository

import (
	"context"
	"database/sql"

	"github.com/xuhuan/visitor-management/internal/model"
)

// PendingRepo persists self-registered accounts awaiting security
// review in the 'pending_users' table. A user_id must be unique across
// this table AND the users table; since MySQL cannot express a unique
// constraint spanning two tables, both inserts here run inside a
// transaction whose probe of the other table is a locking read.
type PendingRepo struct{ DB *sql.DB }

func NewPendingRepo(db *sql.DB) *PendingRepo { return &PendingRepo{DB: db} }

// probeActiveUser mirrors probePendingUser from the other direction.
// The FOR UPDATE lock serializes a self-registration against a
// concurrent admin create of the same user_id.
const probeActiveUser = "SELECT user_id FROM users WHERE user_id=? LIMIT 1 FOR UPDATE"

// Create queues a self-registration. The record always enters with
// approve=false and role resident regardless of what the caller sent.
// Returns ErrDuplicate when the user_id is taken in either table.
func (r *PendingRepo) Create(ctx context.Context, p model.PendingUser) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Probe the users table first; the pending_users primary key covers
	// the other half of the invariant.
	var existing string
	err = tx.QueryRowContext(ctx, probeActiveUser, p.UserID).Scan(&existing)
	if err == nil {
		return ErrDuplicate
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO pending_users (user_id, password_hash, name, unit, phone, role, approve) VALUES (?,?,?,?,?,'resident',FALSE)",
		p.UserID, p.PasswordHash, p.Name, p.Unit, p.Phone)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// List returns every registration still awaiting review.
func (r *PendingRepo) List(ctx context.Context) ([]model.PendingUser, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id, password_hash, name, unit, phone, role, approve FROM pending_users")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.PendingUser
	for rows.Next() {
		var p model.PendingUser
		if err := rows.Scan(&p.UserID, &p.PasswordHash, &p.Name, &p.Unit, &p.Phone, &p.Role, &p.Approve); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Approve migrates one pending registration into the users table and
// removes it from the queue, as a single transaction. Either both
// writes land or neither does: a duplicate user (raced by a direct
// admin create) rolls the whole transition back and surfaces
// ErrDuplicate, leaving the pending record untouched.
func (r *PendingRepo) Approve(ctx context.Context, userID string) (model.User, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var p model.PendingUser
	err = tx.QueryRowContext(ctx,
		"SELECT user_id, password_hash, name, unit, phone, role FROM pending_users WHERE user_id=? LIMIT 1",
		userID).Scan(&p.UserID, &p.PasswordHash, &p.Name, &p.Unit, &p.Phone, &p.Role)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (user_id, password_hash, name, unit, phone, role) VALUES (?,?,?,?,?,?)",
		p.UserID, p.PasswordHash, p.Name, p.Unit, p.Phone, p.Role)
	if isDuplicateKey(err) {
		return model.User{}, ErrDuplicate
	}
	if err != nil {
		return model.User{}, err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM pending_users WHERE user_id=?", userID); err != nil {
		return model.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	return model.User{
		UserID: p.UserID, PasswordHash: p.PasswordHash,
		Name: p.Name, Unit: p.Unit, Phone: p.Phone, Role: p.Role,
	}, nil
}
