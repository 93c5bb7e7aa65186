package auth

import (
	"strings"

	"github.com/pkg/errors"
)

// Role is one of a closed set of account roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePrincipal Role = "principal"
	RoleHOD       Role = "hod"
	RoleTeacher   Role = "teacher"
)

var (
	AllRoles = []Role{RoleAdmin, RolePrincipal, RoleHOD, RoleTeacher}

	ErrUnknownRole = errors.New("unknown role")
)

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", errors.Wrapf(ErrUnknownRole, "%q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// UnmarshalText rejects anything outside the known roles so a decoded token can never carry one.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// JoinRoles renders roles as "a, b".
func JoinRoles(roles []Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return strings.Join(names, ", ")
}
