package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/insights-workflows/api-service/pkg/models"
)

var (
	// ErrTokenExpired distinguishes an expired cookie from a malformed or
	// tampered one; the two surface different 401 messages.
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// SessionClaims carries the identity payload of the session_token cookie.
type SessionClaims struct {
	jwt.RegisteredClaims
	UGuid string `json:"uGuid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoggedClaims carries the first-login flag of the session_logged_token
// cookie. It travels in its own token so the flag can be reissued without
// re-minting the identity token.
type LoggedClaims struct {
	jwt.RegisteredClaims
	LoggedBefore bool `json:"loggedBefore"`
}

// TokenIssuer mints and verifies the HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer constructs a TokenIssuer for the given signing secret and
// token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// IssueSession signs the identity token for a user.
func (t *TokenIssuer) IssueSession(user *models.User) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: t.registered(),
		UGuid:            user.UGuid,
		Name:             user.Name,
		Email:            user.Email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// IssueLogged signs the first-login-flag token.
func (t *TokenIssuer) IssueLogged(loggedBefore bool) (string, error) {
	claims := LoggedClaims{
		RegisteredClaims: t.registered(),
		LoggedBefore:     loggedBefore,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// VerifySession checks signature and expiry of an identity token.
func (t *TokenIssuer) VerifySession(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := t.verify(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyLogged checks signature and expiry of a flag token.
func (t *TokenIssuer) VerifyLogged(token string) (*LoggedClaims, error) {
	claims := &LoggedClaims{}
	if err := t.verify(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (t *TokenIssuer) registered() jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
}

func (t *TokenIssuer) verify(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}

// NewSessionToken mints the opaque per-login token persisted on the user
// record. It is not cross-checked against the cookies on later requests.
func NewSessionToken() string {
	return uuid.New().String()
}
