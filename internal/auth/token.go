package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the identity payload embedded in every signed token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SubjectID returns the account id carried in the token.
func (c *Claims) SubjectID() string { return c.Subject }

// ExpiresUnix returns the embedded expiry as Unix epoch seconds, or 0
// when the claim is absent.
func (c *Claims) ExpiresUnix() int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}

// Codec mints and parses one class of signed token (access or refresh).
// Each class gets its own Codec so the two secrets stay independent:
// compromise of one class never affects the other.
//
// Parse verifies signature and structure only. Expiry is deliberately
// left to the caller — the access and refresh paths check it at
// different points of their pipelines.
type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewCodec constructs a Codec for one token class.
func NewCodec(secret []byte, ttl time.Duration, issuer string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: codec secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: codec ttl must be greater than zero")
	}
	return &Codec{secret: secret, ttl: ttl, issuer: issuer, now: time.Now}, nil
}

// WithClock overrides the time source. Test use only.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	if now != nil {
		c.now = now
	}
	return c
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Mint encodes and signs claims for the given subject and role with
// expires_at = now + ttl.
func (c *Codec) Mint(subjectID, role string) (string, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return "", errors.New("auth: subject id is required")
	}
	now := c.now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Parse verifies the signature and structural validity of a token and
// returns its claims. It does not reject expired tokens — callers own
// the expiry decision.
func (c *Codec) Parse(tokenStr string) (*Claims, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return nil, ErrTokenMalformed
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenMalformed
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
