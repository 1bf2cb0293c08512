package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "attendance"

// ErrInvalidToken is returned when a JWT cannot be parsed or has expired.
var ErrInvalidToken = errors.New("identity: invalid or expired token")

// Claims binds an HTTP client to one process session.
type Claims struct {
	jwt.RegisteredClaims
	SessionID   string `json:"sid"`
	PrincipalID string `json:"uid"`
	Role        string `json:"role"`
}

// IssueToken creates a signed HS256 token for the given session.
func IssueToken(secret, sessionID, principalID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    tokenIssuer,
			Subject:   principalID,
		},
		SessionID:   sessionID,
		PrincipalID: principalID,
		Role:        role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("identity.IssueToken: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a token string. Returns the embedded claims.
func ValidateToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("identity.ValidateToken: %w", ErrInvalidToken)
	}

	if !token.Valid || claims.SessionID == "" {
		return nil, fmt.Errorf("identity.ValidateToken: %w", ErrInvalidToken)
	}

	return claims, nil
}
