package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

// ErrInvalidToken is the only verification failure; callers never learn why a token was refused.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents the identity transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string      `json:"userId"`
	Name         string      `json:"name"`
	Role         Role        `json:"role"`
	DepartmentID null.String `json:"departmentId"`
	ClassIDs     []string    `json:"classIds"`
}

// TokenCodec issues and verifies signed HS256 identity tokens.
type TokenCodec struct {
	secret    []byte
	issuer    string
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokenCodec(conf *core.Config) *TokenCodec {
	return &TokenCodec{
		secret:    []byte(conf.Auth.Secret),
		issuer:    conf.AppName,
		expiresIn: conf.Auth.ExpiresIn,
		now:       time.Now,
	}
}

// Issue signs claims; the registered claims (iat, exp, jti, sub, iss) are always overwritten.
func (c *TokenCodec) Issue(claims Claims) (string, error) {
	if !claims.Role.Valid() {
		return "", errors.Wrap(ErrUnknownRole, "issuing token")
	}
	if claims.ClassIDs == nil {
		claims.ClassIDs = []string{}
	}
	now := c.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    c.issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.expiresIn)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// Verify returns the embedded claims when the signature matches and the token is unexpired.
// Every failure is reported as ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
