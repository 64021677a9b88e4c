package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuhuan/visitor-management/internal/auth"
)

const testSecret = "unit-test-secret"

func newTestService() *Service {
	return NewService(testSecret, NewMemoryRevocations())
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestService()
	raw, err := svc.Issue("alice01", auth.RoleResident)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := svc.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "alice01", claims.UserID)
	assert.Equal(t, auth.RoleResident, claims.Role)
}

func TestVerifyMissingToken(t *testing.T) {
	svc := newTestService()
	_, err := svc.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	other := NewService("a-different-secret", NewMemoryRevocations())
	raw, err := other.Issue("alice01", auth.RoleResident)
	require.NoError(t, err)

	_, err = newTestService().Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// A revoked token must fail verification even though its signature and
// expiry are still perfectly valid.
func TestVerifyRevokedBeforeExpiry(t *testing.T) {
	svc := newTestService()
	raw, err := svc.Issue("alice01", auth.RoleResident)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), raw))
	_, err = svc.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrRevokedToken)

	// Revoking again is harmless.
	assert.NoError(t, svc.Revoke(context.Background(), raw))
	_, err = svc.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrRevokedToken)
}

// faultyRevocations can neither record nor answer; it stands in for a
// Redis outage after startup chose the Redis-backed store.
type faultyRevocations struct{ err error }

func (f faultyRevocations) Add(context.Context, string, time.Duration) error { return f.err }
func (f faultyRevocations) Contains(context.Context, string) (bool, error) { return false, f.err }

// When the revocation store cannot answer, verification fails closed.
// Letting the token through would make every logout silently
// ineffective for the rest of the token lifetime.
func TestVerifyFailsClosedOnStoreError(t *testing.T) {
	svc := NewService(testSecret, faultyRevocations{err: errors.New("redis: connection refused")})
	raw, err := svc.Issue("alice01", auth.RoleResident)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrRevokedToken)
}

// An expired token fails even when it was never revoked. The token is
// forged directly with the shared secret since Issue always stamps a
// future expiry.
func TestVerifyExpired(t *testing.T) {
	past := time.Now().UTC().Add(-2 * time.Hour)
	claims := jwt.MapClaims{
		"sub":  "alice01",
		"role": "resident",
		"exp":  past.Add(time.Hour).Unix(),
		"iat":  past.Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestService().Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// A token whose role claim is not one of the three known roles must
// not authenticate, whatever its signature says.
func TestVerifyUnknownRole(t *testing.T) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  "alice01",
		"role": "superuser",
		"exp":  now.Add(time.Hour).Unix(),
		"iat":  now.Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestService().Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryRevocationsPrunes(t *testing.T) {
	store := NewMemoryRevocations()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "stale", -time.Second)) // already past its deadline
	require.NoError(t, store.Add(ctx, "fresh", time.Hour))

	revoked, err := store.Contains(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked, "entries past the token lifetime are as good as expired")

	revoked, err = store.Contains(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, revoked)

	// The next Add sweeps stale entries out of the map entirely.
	require.NoError(t, store.Add(ctx, "another", time.Hour))
	store.mu.RLock()
	_, stillThere := store.entries["stale"]
	store.mu.RUnlock()
	assert.False(t, stillThere)
}
