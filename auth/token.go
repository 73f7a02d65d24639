package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/session"
)

// Claims ties a token to a server-side session. The role is informational;
// the session is what requests are authorised against.
type Claims struct {
	SessionID string      `json:"sid"`
	UserID    uint        `json:"user_id"`
	Role      models.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for sess that expires with it.
func IssueToken(secret []byte, sess *session.Session) (string, error) {
	claims := Claims{
		SessionID: sess.ID,
		UserID:    sess.Identity.UserID,
		Role:      sess.Identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates signature, method and expiry.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
