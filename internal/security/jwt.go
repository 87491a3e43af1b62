package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMalformed means the token structure could not be decoded.
	ErrMalformed = errors.New("malformed token")
	// ErrInvalidSignature means the signature does not match: tampering
	// or a key mismatch (e.g. after secret rotation).
	ErrInvalidSignature = errors.New("invalid token signature")
)

// TokenClaims is the signed payload. Timestamps are milliseconds since
// epoch. Nonce makes two tokens issued for the same user in the same
// millisecond distinct, which keeps the session token column unique.
type TokenClaims struct {
	IssuedAtMillis  int64  `json:"iat"`
	ExpiresAtMillis int64  `json:"exp"`
	UserID          uint   `json:"user_id"`
	Issuer          string `json:"issuer"`
	Nonce           string `json:"jti"`
}

func (c *TokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.UnixMilli(c.ExpiresAtMillis)), nil
}

func (c *TokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.UnixMilli(c.IssuedAtMillis)), nil
}

func (c *TokenClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

func (c *TokenClaims) GetIssuer() (string, error) { return c.Issuer, nil }

func (c *TokenClaims) GetSubject() (string, error) { return "", nil }

func (c *TokenClaims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// TokenCodec issues and parses HMAC-signed tokens. The secret stays
// server-side; any instance constructed with the same secret can verify
// tokens issued by any other instance without shared state. Rotating the
// secret invalidates all previously issued tokens.
type TokenCodec struct {
	issuer   string
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenCodec(issuer, secret string, validity time.Duration) *TokenCodec {
	return &TokenCodec{
		issuer:   issuer,
		secret:   []byte(secret),
		validity: validity,
		now:      time.Now,
	}
}

// Issue signs a fresh token for userID. Expiry is always computed here
// from the configured validity window, never taken from a caller.
func (c *TokenCodec) Issue(userID uint) (string, *TokenClaims, error) {
	issuedAt := c.now()
	claims := &TokenClaims{
		IssuedAtMillis:  issuedAt.UnixMilli(),
		ExpiresAtMillis: issuedAt.Add(c.validity).UnixMilli(),
		UserID:          userID,
		Issuer:          c.issuer,
		Nonce:           uuid.NewString(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, err
	}
	return raw, claims, nil
}

// Parse verifies the signature and returns the claims. No claim is
// returned, or trusted anywhere, before the signature checks out. Expiry
// is deliberately not enforced here: an expired-but-authentic token is a
// normal validation outcome the engine reconciles against the session
// ledger.
func (c *TokenCodec) Parse(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing algorithm")
		}
		return c.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrMalformed
		}
		return nil, ErrInvalidSignature
	}
	if !tok.Valid {
		return nil, ErrInvalidSignature
	}
	return claims, nil
}
