package repository

import (
	"context"
	"database/sql"

	"github.com/xuhuan/visitor-management/internal/model"
)

// VisitorLogRepo persists gate check-in/check-out records in the
// 'visitor_logs' table.
type VisitorLogRepo struct{ DB *sql.DB }

func NewVisitorLogRepo(db *sql.DB) *VisitorLogRepo { return &VisitorLogRepo{DB: db} }

// CheckIn inserts a new log with the supplied check-in timestamp and an
// empty check-out time. The log_id primary key rejects reuse forever,
// even across different visitors.
func (r *VisitorLogRepo) CheckIn(ctx context.Context, l model.VisitorLog) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO visitor_logs (log_id, ref_num, check_in_time, check_out_time, user_id) VALUES (?,?,?,'',?)",
		l.LogID, l.RefNum, l.CheckInTime, l.UserID)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// CheckOut stamps the check-out time on an existing log. A repeated
// checkout simply overwrites the previous timestamp; there is no
// ordering validation against the check-in time. Missing logs are
// reported as ErrNotFound.
func (r *VisitorLogRepo) CheckOut(ctx context.Context, logID, checkOutTime string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE visitor_logs SET check_out_time=? WHERE log_id=?", checkOutTime, logID)
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

// Find returns all logs matching the id. The key is expected to be
// unique but the read contract tolerates multiples, so a slice comes
// back rather than a single record.
func (r *VisitorLogRepo) Find(ctx context.Context, logID string) ([]model.VisitorLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT log_id, ref_num, check_in_time, check_out_time, user_id FROM visitor_logs WHERE log_id=?",
		logID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.VisitorLog
	for rows.Next() {
		var l model.VisitorLog
		if err := rows.Scan(&l.LogID, &l.RefNum, &l.CheckInTime, &l.CheckOutTime, &l.UserID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
