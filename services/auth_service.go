package services

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity-service access token claims the server reads.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HMAC-signed bearer tokens issued by the identity service.
type TokenVerifier struct {
	secretKey []byte
	audience  string
}

// NewTokenVerifier returns a verifier for tokens signed with secret.
// A non-empty audience is enforced on every token.
func NewTokenVerifier(secret, audience string) *TokenVerifier {
	return &TokenVerifier{secretKey: []byte(secret), audience: audience}
}

// VerifyToken validates tokenString and returns its claims.
func (v *TokenVerifier) VerifyToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.secretKey, nil
		},
		opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Authenticate resolves an Authorization header value to the caller identity.
// Every failure is reported as ErrUnauthorized.
func (v *TokenVerifier) Authenticate(authHeader string) (string, error) {
	token, ok := BearerToken(authHeader)
	if !ok {
		return "", ErrUnauthorized
	}
	claims, err := v.VerifyToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return claims.Subject, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(authHeader string) (string, bool) {
	const prefix = "bearer "
	if len(authHeader) <= len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(authHeader[len(prefix):])
	return token, token != ""
}
