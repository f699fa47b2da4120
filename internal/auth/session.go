package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned for any unusable session token. Missing,
// malformed, badly signed and expired tokens are deliberately not
// distinguishable by the caller.
var ErrInvalidSession = errors.New("invalid or expired session")

// SessionClaims is the payload embedded in a session token
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
}

// IssueSession signs a session token for the user. Validity is checked purely
// by signature and expiry; there is no server-side session store.
func IssueSession(userID int64, email string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Email:  email,
	})

	return token.SignedString(secret)
}

// ParseSession verifies a session token and returns the embedded identity
func ParseSession(tokenString string, secret []byte) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	return claims, nil
}
