package model

// VisitorLog records one check-in/check-out cycle at the gate. The
// ref_num links to a visitor by convention only; there is no foreign
// key, so a log survives deletion of its visitor. CheckOutTime stays
// empty until checkout. Timestamps are stored as formatted strings, the
// same representation the gate devices submit.
type VisitorLog struct {
	LogID        string `json:"log_id"`
	RefNum       string `json:"ref_num"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`
	UserID       string `json:"user_id"`
}
