package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xuhuan/visitor-management/internal/auth"
)

// The ownership restriction must live inside the SQL itself: a scoped
// caller's query carries the extra predicate and bound owner argument,
// while a global scope leaves the query untouched.
func TestScopeClause(t *testing.T) {
	base := "SELECT ref_num FROM visitors WHERE ref_num=?"

	q, args := scopeClause(base, []interface{}{"V001"}, auth.Scope{All: true})
	assert.Equal(t, base, q)
	assert.Equal(t, []interface{}{"V001"}, args)

	q, args = scopeClause(base, []interface{}{"V001"}, auth.Scope{OwnerID: "alice01"})
	assert.Equal(t, base+" AND user_id=?", q)
	assert.Equal(t, []interface{}{"V001", "alice01"}, args)

	// The zero scope matches no owner. The empty owner id still lands
	// in the predicate, so a caller without identity can never see
	// records owned by anyone.
	q, args = scopeClause(base, []interface{}{"V001"}, auth.Scope{})
	assert.Equal(t, base+" AND user_id=?", q)
	assert.Equal(t, []interface{}{"V001", ""}, args)
}

// The cross-table uniqueness probes must stay locking reads. A plain
// SELECT inside the transaction is a snapshot read under InnoDB, and
// two concurrent registrations for the same user_id would each see an
// empty snapshot of the other table, insert into different tables and
// both commit.
func TestCrossTableProbesAreLockingReads(t *testing.T) {
	assert.True(t, strings.HasSuffix(probePendingUser, "FOR UPDATE"))
	assert.True(t, strings.HasSuffix(probeActiveUser, "FOR UPDATE"))
	assert.Contains(t, probePendingUser, "FROM pending_users")
	assert.Contains(t, probeActiveUser, "FROM users")
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(errors.New("Error 1062: Duplicate entry 'V001' for key 'PRIMARY'")))
	assert.False(t, isDuplicateKey(nil))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))
}
