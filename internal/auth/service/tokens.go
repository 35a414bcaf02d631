package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/streamforge/backend/internal/common/clock"
	userdomain "github.com/streamforge/backend/internal/user/domain"
)

// AccessClaims is the identity payload carried by an access token.
type AccessClaims struct {
	UserID   userdomain.ID
	Username string
	Email    string
	FullName string
}

// TokenCodec signs and verifies the two token classes. Access and refresh
// tokens use independent secrets and expiries; both are HS256 only.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	clock         clock.Clock
}

func NewTokenCodec(
	accessSecret string,
	refreshSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	ck clock.Clock,
) *TokenCodec {
	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		clock:         ck,
	}
}

func (c *TokenCodec) AccessTokenTTL() time.Duration {
	return c.accessTTL
}

func (c *TokenCodec) RefreshTokenTTL() time.Duration {
	return c.refreshTTL
}

func (c *TokenCodec) SignAccessToken(user userdomain.User) (string, error) {
	now := c.clock.Now()
	claims := jwt.MapClaims{
		"sub":  string(user.ID),
		"usr":  user.Username,
		"eml":  user.Email,
		"name": user.FullName,
		"iat":  now.Unix(),
		"exp":  now.Add(c.accessTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.accessSecret)
}

func (c *TokenCodec) SignRefreshToken(id userdomain.ID) (string, error) {
	now := c.clock.Now()
	claims := jwt.MapClaims{
		"sub": string(id),
		"iat": now.Unix(),
		"exp": now.Add(c.refreshTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.refreshSecret)
}

func (c *TokenCodec) VerifyAccessToken(tokenString string) (AccessClaims, error) {
	mapClaims, err := c.parse(tokenString, c.accessSecret)
	if err != nil {
		return AccessClaims{}, err
	}

	sub, _ := mapClaims["sub"].(string)
	username, _ := mapClaims["usr"].(string)
	if sub == "" || username == "" {
		return AccessClaims{}, errors.New("missing sub or usr claims")
	}

	email, _ := mapClaims["eml"].(string)
	fullName, _ := mapClaims["name"].(string)

	return AccessClaims{
		UserID:   userdomain.ID(sub),
		Username: username,
		Email:    email,
		FullName: fullName,
	}, nil
}

func (c *TokenCodec) VerifyRefreshToken(tokenString string) (userdomain.ID, error) {
	mapClaims, err := c.parse(tokenString, c.refreshSecret)
	if err != nil {
		return "", err
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing sub claim")
	}

	return userdomain.ID(sub), nil
}

func (c *TokenCodec) parse(tokenString string, secret []byte) (jwt.MapClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
	)

	parsed, err := parser.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return nil, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	return mapClaims, nil
}
