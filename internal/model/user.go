package model

// User represents an account record as stored in the `users` table.
// Accounts are keyed by a caller-chosen user_id string rather than an
// auto-increment column because residents register with their own
// identifier and every other table references them by that string.
//
// Fields:
//  UserID       – primary key, unique across users AND pending_users.
//  PasswordHash – bcrypt hashed password; never serialized to clients.
//  Name         – display name of the account holder.
//  Unit         – residential unit the account belongs to.
//  Phone        – contact phone number.
//  Role         – one of admin, security or resident (see internal/auth).
type User struct {
	UserID       string `json:"user_id"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
}

// PendingUser mirrors the `pending_users` table. It carries the same
// fields as User plus the approval flag. Records are always created with
// Approve=false and Role="resident"; approval migrates the row into the
// users table and removes it from this one, so a pending record never
// coexists with an active account under the same user_id.
type PendingUser struct {
	UserID       string `json:"user_id"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	Approve      bool   `json:"approve"`
}
