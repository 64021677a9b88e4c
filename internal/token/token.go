// Package token issues, verifies and revokes the signed session tokens
// used by every protected endpoint. Tokens are stateless HS256 JWTs;
// revocation is the one piece of server-side session state and lives in
// a RevocationStore (Redis when available, in-process otherwise).
package token

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xuhuan/visitor-management/internal/auth"
)

// TTL is the fixed lifetime of a session token. Changing the signing
// secret is the only way to invalidate all outstanding sessions at
// once; individual sessions end via Revoke or expiry.
const TTL = time.Hour

// Verification failure modes. Handlers map all three to HTTP 401 but
// the distinction matters for logging and for tests.
var (
	// ErrMissingToken means no bearer token was presented.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken means the signature or expiry check failed.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrRevokedToken means the token string was revoked via logout.
	ErrRevokedToken = errors.New("token has been revoked")
)

// Claims is the verified content of a session token. Only the account
// identity and role are embedded; no password material or other PII
// ever enters a token.
type Claims struct {
	UserID string
	Role   auth.Role
}

// RevocationStore records raw token strings invalidated by logout.
// Entries only need to outlive the token itself, so implementations
// may drop them once ttl elapses. Add must be idempotent.
type RevocationStore interface {
	Add(ctx context.Context, raw string, ttl time.Duration) error
	Contains(ctx context.Context, raw string) (bool, error)
}

// Service signs and checks session tokens with a process-wide secret.
type Service struct {
	secret  []byte
	revoked RevocationStore
}

// NewService builds a token service. The secret comes from required
// configuration and is never rotated at runtime.
func NewService(secret string, revoked RevocationStore) *Service {
	return &Service{secret: []byte(secret), revoked: revoked}
}

// Issue signs a token for the given account, valid for TTL.
func (s *Service) Issue(userID string, role auth.Role) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role.String(),
		"exp":  now.Add(TTL).Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks a raw bearer token and returns its claims.
//
// The revocation set is consulted BEFORE the signature: a revoked token
// is still validly signed until it expires, and the set membership test
// is the cheaper of the two checks, so it short-circuits first.
func (s *Service) Verify(ctx context.Context, raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrMissingToken
	}
	if s.revoked != nil {
		revoked, err := s.revoked.Contains(ctx, raw)
		if err != nil {
			// Fail closed. If the store cannot answer, a revoked token
			// would otherwise stay valid until expiry, so the whole
			// check rejects instead.
			log.Printf("token: revocation check failed: %v", err)
			return Claims{}, ErrRevokedToken
		}
		if revoked {
			return Claims{}, ErrRevokedToken
		}
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	roleStr, _ := mc["role"].(string)
	role, err := auth.ParseRole(roleStr)
	if err != nil || sub == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: sub, Role: role}, nil
}

// Revoke adds the raw token string to the revocation set. Revoking the
// same token twice is harmless; there is no un-revoke. Entries are kept
// for the full token TTL; after that the expiry check rejects the
// token anyway, so the store is free to evict.
func (s *Service) Revoke(ctx context.Context, raw string) error {
	if raw == "" {
		return ErrMissingToken
	}
	if s.revoked == nil {
		return errors.New("no revocation store configured")
	}
	return s.revoked.Add(ctx, raw, TTL)
}
