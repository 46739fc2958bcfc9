package auth

import (
	"context"
	"fmt"
	"time"
)

// TokenService orchestrates token verification and issuance over the
// codec pair and the revocation ledger.
type TokenService struct {
	access  *Codec
	refresh *Codec
	ledger  RevocationLedger
	now     func() time.Time
}

// NewTokenService wires the two codecs and the ledger together.
func NewTokenService(access, refresh *Codec, ledger RevocationLedger) *TokenService {
	return &TokenService{
		access:  access,
		refresh: refresh,
		ledger:  ledger,
		now:     time.Now,
	}
}

// WithClock overrides the time source. Test use only.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		s.now = now
	}
	return s
}

// RefreshTTL returns the refresh token lifetime; the ledger entry TTL
// must match it.
func (s *TokenService) RefreshTTL() time.Duration { return s.refresh.TTL() }

// MintPair issues a fresh access/refresh token pair for the subject.
// The caller is responsible for recording the refresh token in the
// ledger.
func (s *TokenService) MintPair(subjectID, role string) (TokenPair, error) {
	accessToken, err := s.access.Mint(subjectID, role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("mint access token: %w", err)
	}
	refreshToken, err := s.refresh.Mint(subjectID, role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("mint refresh token: %w", err)
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccessToken validates a stateless access token: signature, then
// embedded expiry. It never consults the revocation ledger — access
// checks stay a pure in-process computation on the hot path.
func (s *TokenService) VerifyAccessToken(tokenStr string) (*Claims, error) {
	claims, err := s.access.Parse(tokenStr)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if s.expired(claims) {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// VerifyRefreshToken validates a refresh token and, on success, mints a
// replacement access token from its claims. The refresh token itself is
// not rotated.
//
// The ledger is probed before the signature is checked: a revoked but
// still correctly signed token is rejected without paying for a parse,
// which is the common case after logout. A ledger outage surfaces as
// ErrStoreUnavailable and must never be collapsed into a rejection.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, tokenStr string) (string, *Claims, error) {
	live, err := s.ledger.Exists(ctx, tokenStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: refresh ledger probe: %v", ErrStoreUnavailable, err)
	}
	if !live {
		return "", nil, ErrUnauthorized
	}
	claims, err := s.refresh.Parse(tokenStr)
	if err != nil {
		return "", nil, ErrUnauthorized
	}
	if s.expired(claims) {
		return "", nil, ErrUnauthorized
	}
	accessToken, err := s.access.Mint(claims.SubjectID(), claims.Role)
	if err != nil {
		return "", nil, fmt.Errorf("mint replacement access token: %w", err)
	}
	return accessToken, claims, nil
}

// expired applies the shared expiry rule: a token is expired once
// now >= expires_at, evaluated at verification time. A missing expiry
// claim counts as expired.
func (s *TokenService) expired(claims *Claims) bool {
	exp := claims.ExpiresUnix()
	if exp == 0 {
		return true
	}
	return s.now().Unix() >= exp
}
