package repository

import (
	"context"
	"database/sql"

	"github.com/xuhuan/visitor-management/internal/auth"
	"github.com/xuhuan/visitor-management/internal/model"
)

// VisitorRepo persists visitor profiles in the 'visitors' table. All
// read and write methods take an auth.Scope and splice the ownership
// restriction into the SQL itself, so an owner-scoped caller can never
// learn whether another user's record exists.
type VisitorRepo struct{ DB *sql.DB }

func NewVisitorRepo(db *sql.DB) *VisitorRepo { return &VisitorRepo{DB: db} }

const visitorColumns = "ref_num, name, ic_num, car_num, phone, pass, category, visit_date, unit, user_id"

// scopeClause appends the owner restriction for non-global scopes.
// Returns the extended query and argument list.
func scopeClause(query string, args []interface{}, scope auth.Scope) (string, []interface{}) {
	if scope.All {
		return query, args
	}
	return query + " AND user_id=?", append(args, scope.OwnerID)
}

// Create registers a visitor owned by ownerID. A clash on the ref_num
// primary key surfaces as ErrDuplicate and leaves the original record
// unchanged.
func (r *VisitorRepo) Create(ctx context.Context, v model.Visitor, ownerID string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO visitors (ref_num, name, ic_num, car_num, phone, pass, category, visit_date, unit, user_id) VALUES (?,?,?,?,?,?,?,?,?,?)",
		v.RefNum, v.Name, v.ICNum, v.CarNum, v.Phone, v.Pass, v.Category, v.VisitDate, v.Unit, ownerID)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// GetByRef fetches a visitor by reference number within the scope.
// Both "no such record" and "record owned by someone else" come back
// as ErrNotFound.
func (r *VisitorRepo) GetByRef(ctx context.Context, refNum string, scope auth.Scope) (model.Visitor, error) {
	query, args := scopeClause(
		"SELECT "+visitorColumns+" FROM visitors WHERE ref_num=?",
		[]interface{}{refNum}, scope)
	var v model.Visitor
	err := r.DB.QueryRowContext(ctx, query+" LIMIT 1", args...).Scan(
		&v.RefNum, &v.Name, &v.ICNum, &v.CarNum, &v.Phone, &v.Pass,
		&v.Category, &v.VisitDate, &v.Unit, &v.UserID)
	if err == sql.ErrNoRows {
		return model.Visitor{}, ErrNotFound
	}
	return v, err
}

// List returns every visitor within the scope: the whole table for a
// global scope, the caller's own registrations otherwise. An empty
// result is ErrNotFound so handlers report "visitor does not exist"
// rather than an empty page.
func (r *VisitorRepo) List(ctx context.Context, scope auth.Scope) ([]model.Visitor, error) {
	query, args := scopeClause(
		"SELECT "+visitorColumns+" FROM visitors WHERE 1=1", nil, scope)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Visitor
	for rows.Next() {
		var v model.Visitor
		if err := rows.Scan(&v.RefNum, &v.Name, &v.ICNum, &v.CarNum, &v.Phone, &v.Pass,
			&v.Category, &v.VisitDate, &v.Unit, &v.UserID); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Update rewrites a visitor's profile fields within the scope. The
// pass flag is updated too, letting an owner re-arm a consumed pass by
// re-submitting the record. Zero matched rows is ErrNotFound.
func (r *VisitorRepo) Update(ctx context.Context, v model.Visitor, scope auth.Scope) error {
	query, args := scopeClause(
		"UPDATE visitors SET name=?, ic_num=?, car_num=?, phone=?, pass=?, category=?, visit_date=?, unit=? WHERE ref_num=?",
		[]interface{}{v.Name, v.ICNum, v.CarNum, v.Phone, v.Pass, v.Category, v.VisitDate, v.Unit, v.RefNum}, scope)
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a visitor within the scope and reports the deleted
// count through ErrNotFound when it is zero.
func (r *VisitorRepo) Delete(ctx context.Context, refNum string, scope auth.Scope) error {
	query, args := scopeClause(
		"DELETE FROM visitors WHERE ref_num=?", []interface{}{refNum}, scope)
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByIC fetches a visitor by IC number without mutating anything.
// Used by the authenticated QR-link path, which requires pass==true
// but does not consume it.
func (r *VisitorRepo) GetByIC(ctx context.Context, icNum string) (model.Visitor, error) {
	var v model.Visitor
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+visitorColumns+" FROM visitors WHERE ic_num=? LIMIT 1",
		icNum).Scan(&v.RefNum, &v.Name, &v.ICNum, &v.CarNum, &v.Phone, &v.Pass,
		&v.Category, &v.VisitDate, &v.Unit, &v.UserID)
	if err == sql.ErrNoRows {
		return model.Visitor{}, ErrNotFound
	}
	return v, err
}

// ConsumePass atomically claims the single-use pass for the visitor
// with the given IC number and returns the record as it stood.
//
// The read-check-flip must be one conditional UPDATE, not a read
// followed by a write: two concurrent retrievals race on the same row,
// and only the one whose UPDATE matches `pass=TRUE` may succeed. The
// loser (and every later attempt) gets ErrPassConsumed even though the
// visitor row still exists.
func (r *VisitorRepo) ConsumePass(ctx context.Context, icNum string) (model.Visitor, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE visitors SET pass=FALSE WHERE ic_num=? AND pass=TRUE", icNum)
	if err != nil {
		return model.Visitor{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Visitor{}, err
	}
	if n == 0 {
		return model.Visitor{}, ErrPassConsumed
	}
	v, err := r.GetByIC(ctx, icNum)
	if err != nil {
		return model.Visitor{}, err
	}
	// The flip above proved the pass was valid for this request.
	v.Pass = true
	return v, nil
}
