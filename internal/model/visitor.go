package model

// Visitor represents a registered visitor profile in the `visitors`
// table. Each visitor is owned by the account that registered it; the
// owner's user_id scopes what residents are allowed to see and change.
//
// Fields:
//  RefNum    – primary key, globally unique reference number.
//  Name      – visitor's name.
//  ICNum     – identity card number, used to look the visitor up when
//              issuing a pass.
//  CarNum    – vehicle plate, may be empty for walk-ins.
//  Phone     – contact phone number.
//  Pass      – whether a gate pass may still be issued. Cleared
//              atomically on the first public pass retrieval.
//  Category  – visit category (delivery, guest, contractor, ...).
//  VisitDate – intended date of the visit, stored as text.
//  Unit      – unit being visited.
//  UserID    – user_id of the resident or staff who registered the
//              visitor (the owner).
type Visitor struct {
	RefNum    string `json:"ref_num"`
	Name      string `json:"name"`
	ICNum     string `json:"IC_num"`
	CarNum    string `json:"car_num"`
	Phone     string `json:"phone"`
	Pass      bool   `json:"pass"`
	Category  string `json:"category"`
	VisitDate string `json:"visit_date"`
	Unit      string `json:"unit"`
	UserID    string `json:"user_id"`
}
