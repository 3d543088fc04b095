package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"usercenter/internal/core/config"
)

// Claims UID 为凭证所属主体（manager/client/user）的 id
type Claims struct {
	UID   string `json:"uid"`
	Role  string `json:"role"`
	Owner string `json:"owner"` // manager | client | user
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func FromConfig(c config.JWT) *JWTer {
	ttl := time.Duration(c.AccessTokenTTLMin) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTer{Secret: []byte(c.Secret), Issuer: c.Issuer, TTL: ttl}
}

// Issue sub 写入凭证 id，便于吊销/审计
func (j *JWTer) Issue(authID, uid, owner, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:   uid,
		Role:  role,
		Owner: owner,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   authID,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}
