package auth

// Action identifies a protected operation. Each HTTP endpoint maps to
// exactly one action.
type Action string

const (
	// Account management
	ActionUserFind     Action = "user:find"
	ActionUserRegister Action = "user:register"
	ActionUserUpdate   Action = "user:update"
	ActionUserDelete   Action = "user:delete"

	// Registration approval
	ActionApprovalReview Action = "approval:review"
	ActionApprovalGrant  Action = "approval:grant"

	// Visitor registry
	ActionVisitorRegister Action = "visitor:register"
	ActionVisitorFind     Action = "visitor:find"
	ActionVisitorUpdate   Action = "visitor:update"
	ActionVisitorDelete   Action = "visitor:delete"
	ActionVisitorListAll  Action = "visitor:list_all"
	ActionVisitorListOwn  Action = "visitor:list_own"

	// Unit phone lookup for the guard house
	ActionUnitPhoneFind Action = "unit:find_phone"

	// Gate operations
	ActionLogCheckIn  Action = "log:check_in"
	ActionLogCheckOut Action = "log:check_out"
	ActionLogFind     Action = "log:find"

	// Pass issuance for an authenticated caller
	ActionPassIssue Action = "pass:issue"
)

// Decision is the outcome of a policy lookup.
type Decision uint8

const (
	// Deny rejects the operation outright.
	Deny Decision = iota
	// Allow permits the operation with no ownership restriction.
	Allow
	// AllowOwn permits the operation restricted to records whose
	// user_id equals the caller's. The restriction is injected into the
	// database query itself (see repository.VisitorRepo) so that a
	// non-owner cannot even learn whether a record exists.
	AllowOwn
)

// policy is the full role × action table. Absent entries deny, so a new
// action is locked down until a row is added here deliberately.
var policy = map[Action]map[Role]Decision{
	ActionUserFind:     {RoleAdmin: Allow},
	ActionUserRegister: {RoleAdmin: Allow},
	ActionUserUpdate:   {RoleAdmin: Allow},
	ActionUserDelete:   {RoleAdmin: Allow},

	ActionApprovalReview: {RoleSecurity: Allow},
	ActionApprovalGrant:  {RoleSecurity: Allow},

	ActionVisitorRegister: {RoleAdmin: Allow, RoleSecurity: Allow, RoleResident: Allow},
	ActionVisitorFind:     {RoleAdmin: Allow, RoleSecurity: Allow, RoleResident: AllowOwn},
	ActionVisitorUpdate:   {RoleAdmin: Allow, RoleSecurity: AllowOwn, RoleResident: AllowOwn},
	ActionVisitorDelete:   {RoleAdmin: Allow, RoleSecurity: AllowOwn, RoleResident: AllowOwn},
	ActionVisitorListAll:  {RoleAdmin: Allow},
	ActionVisitorListOwn:  {RoleResident: Allow},

	ActionUnitPhoneFind: {RoleSecurity: Allow},

	ActionLogCheckIn:  {RoleAdmin: Allow, RoleSecurity: Allow},
	ActionLogCheckOut: {RoleAdmin: Allow, RoleSecurity: Allow},
	ActionLogFind:     {RoleAdmin: Allow, RoleSecurity: Allow},

	ActionPassIssue: {RoleAdmin: Allow, RoleSecurity: Allow, RoleResident: Allow},
}

// Decide returns the policy decision for a role performing an action.
// Unknown roles and unknown actions both deny.
func Decide(role Role, action Action) Decision {
	byRole, ok := policy[action]
	if !ok {
		return Deny
	}
	return byRole[role]
}

// Scope describes the record visibility a decision grants. A zero Scope
// sees nothing. Repositories append "AND user_id = ?" to their queries
// whenever OwnerID is set, so ownership is enforced inside the query
// rather than after reading the row.
type Scope struct {
	// All grants unrestricted access when true.
	All bool
	// OwnerID restricts matches to records owned by this user when
	// non-empty and All is false.
	OwnerID string
}

// ScopeFor translates a decision into a query scope for the caller.
// The boolean reports whether the operation is permitted at all.
func ScopeFor(role Role, action Action, callerID string) (Scope, bool) {
	switch Decide(role, action) {
	case Allow:
		return Scope{All: true}, true
	case AllowOwn:
		if callerID == "" {
			return Scope{}, false
		}
		return Scope{OwnerID: callerID}, true
	}
	return Scope{}, false
}
