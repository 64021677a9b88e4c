// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into the gate
// audit trail.
package queue

// Visitor activity actions carried in VisitorActivityEvent.Action.
const (
	ActionCheckIn  = "check_in"
	ActionCheckOut = "check_out"
)

// VisitorActivityEvent is published whenever gate staff check a
// visitor in or out. It carries enough information for downstream
// consumers to build an audit trail without querying the primary
// database.
type VisitorActivityEvent struct {
	Action  string `json:"action"` // check_in | check_out
	LogID   string `json:"log_id"`
	RefNum  string `json:"ref_num"`
	StaffID string `json:"staff_id"` // user_id of the gate staff
	At      string `json:"at"`       // event timestamp, RFC 3339
}
