package providers

import (
	"errors"
	"falci/internal/structures"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
)

// SessionClaims are carried by every issued session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	Email     string `json:"email"`
}

type TokenProviderInterface interface {
	Issue(sessionID string, email string) (string, time.Time, error)
	Parse(token string) (*SessionClaims, error)
}

type TokenProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenProvider(conf *structures.Config) TokenProviderInterface {
	return &TokenProvider{
		secret: []byte(conf.Auth.SecretKey),
		ttl:    conf.Auth.TokenTTL,
		now:    time.Now,
	}
}

func (tp *TokenProvider) Issue(sessionID string, email string) (string, time.Time, error) {
	issued := tp.now()
	expires := issued.Add(tp.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		SessionID: sessionID,
		Email:     email,
	})

	signed, err := token.SignedString(tp.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expires, nil
}

func (tp *TokenProvider) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return tp.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(tp.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
