package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessType  = "access"
	refreshType = "refresh"
)

// Claims are carried by both tokens; Type tells them apart.
type Claims struct {
	Email string `json:"email"`
	Type  string `json:"token_type"`
	jwt.RegisteredClaims
}

// Issuer signs HS256 token pairs for the sandbox API.
type Issuer struct {
	Key             []byte
	AccessLifetime  time.Duration
	RefreshLifetime time.Duration
	Now             func() time.Time
}

func (i Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

func (i Issuer) Issue(acc Account) (Token, error) {
	if len(i.Key) == 0 {
		return Token{}, errors.New("no signing key")
	}

	now := i.now()
	sign := func(typ string, life time.Duration) (string, error) {
		c := Claims{
			Email: acc.Email,
			Type:  typ,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   acc.ID,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(life)),
			},
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.Key)
	}

	access, err := sign(accessType, i.AccessLifetime)
	if err != nil {
		return Token{}, fmt.Errorf("signing access token: %w", err)
	}
	refresh, err := sign(refreshType, i.RefreshLifetime)
	if err != nil {
		return Token{}, fmt.Errorf("signing refresh token: %w", err)
	}

	return Token{Access: access, Refresh: refresh}, nil
}

// Verify checks an access token signed by i and returns its claims.
func (i Issuer) Verify(access string) (Claims, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(access, &c, func(t *jwt.Token) (any, error) {
		return i.Key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Claims{}, err
	}
	if c.Type != accessType {
		return Claims{}, fmt.Errorf("token type %q is not %q", c.Type, accessType)
	}
	return c, nil
}
