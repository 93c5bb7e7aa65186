package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(secret string) *TokenCodec {
	return NewTokenCodec(&core.Config{
		AppName: "EduCore",
		Auth:    core.AuthConfig{Secret: secret, ExpiresIn: 8 * time.Hour},
	})
}

func testClaims() Claims {
	return Claims{
		UserID:       "7c0b1b5e-1b7e-4a53-9b43-08a1d6c6e0a1",
		Name:         "Asha Rao",
		Role:         RoleTeacher,
		DepartmentID: null.StringFrom("5f3d0c2a-6f0e-4a6e-8a52-9f1f1d2b3c4d"),
		ClassIDs:     []string{"c1", "c2"},
	}
}

func TestTokenCodec_roundTrip(t *testing.T) {
	codec := newTestCodec(testSecret)

	token, err := codec.Issue(testClaims())
	require.NoError(t, err)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "7c0b1b5e-1b7e-4a53-9b43-08a1d6c6e0a1", got.UserID)
	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, RoleTeacher, got.Role)
	assert.Equal(t, null.StringFrom("5f3d0c2a-6f0e-4a6e-8a52-9f1f1d2b3c4d"), got.DepartmentID)
	assert.Equal(t, []string{"c1", "c2"}, got.ClassIDs)
	assert.Equal(t, got.UserID, got.Subject)
}

func TestTokenCodec_Issue_differsBetweenCalls(t *testing.T) {
	codec := newTestCodec(testSecret)
	t1, err := codec.Issue(testClaims())
	require.NoError(t, err)
	t2, err := codec.Issue(testClaims())
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}

func TestTokenCodec_Issue_unknownRole(t *testing.T) {
	claims := testClaims()
	claims.Role = "student"
	_, err := newTestCodec(testSecret).Issue(claims)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestTokenCodec_Verify(t *testing.T) {
	codec := newTestCodec(testSecret)
	valid, err := codec.Issue(testClaims())
	require.NoError(t, err)

	expiredCodec := newTestCodec(testSecret)
	expiredCodec.now = func() time.Time { return time.Now().Add(-9 * time.Hour) }
	expired, err := expiredCodec.Issue(testClaims())
	require.NoError(t, err)

	otherSecret, err := newTestCodec(strings.Repeat("z", 32)).Issue(testClaims())
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forgedPayload := strings.Replace(string(payload), `"role":"teacher"`, `"role":"admin"`, 1)
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(forgedPayload)) + "." + parts[2]

	unknownRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u1",
		"role":   "student",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	unknownRoleToken, err := unknownRole.SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u1", "role": "admin"})
	noExpToken, err := noExp.SignedString([]byte(testSecret))
	require.NoError(t, err)

	noneAlg := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "u1",
		"role":   "admin",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	noneToken, err := noneAlg.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "expired", token: expired},
		{name: "wrong secret", token: otherSecret},
		{name: "tampered payload", token: tampered},
		{name: "unknown role", token: unknownRoleToken},
		{name: "no expiry", token: noExpToken},
		{name: "alg none", token: noneToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Verify(tt.token)
			assert.Equal(t, ErrInvalidToken, err)
			assert.Equal(t, Claims{}, claims)
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range AllRoles {
		got, err := ParseRole(string(role))
		assert.NoError(t, err)
		assert.Equal(t, role, got)
	}
	_, err := ParseRole("student")
	assert.ErrorIs(t, err, ErrUnknownRole)
	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestJoinRoles(t *testing.T) {
	assert.Equal(t, "admin, principal", JoinRoles([]Role{RoleAdmin, RolePrincipal}))
	assert.Equal(t, "", JoinRoles(nil))
}
