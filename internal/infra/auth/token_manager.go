package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"servihub/internal/domain"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager mints and parses HMAC-signed bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Mint signs a token for the given subject and role.
func (m *TokenManager) Mint(subjectID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a signed token and returns its claims.
func (m *TokenManager) Parse(tok string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// FromAuthorizationHeader extracts the bearer token from an
// "Authorization: Bearer <jwt>" header value.
func FromAuthorizationHeader(hdr string) (string, error) {
	if hdr == "" || !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return "", domain.ErrUnauthorized
	}
	return strings.TrimSpace(hdr[7:]), nil
}
