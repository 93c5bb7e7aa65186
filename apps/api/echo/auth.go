package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/educore/core/auth"
)

const contextClaimsKey = "claims"

// authMiddleware verifies the bearer token and stores its claims in the request context.
func authMiddleware(codec *auth.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				return errNoToken
			}
			claims, err := codec.Verify(strings.TrimSpace(token))
			if err != nil {
				return errInvalidToken
			}
			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

// roleMiddleware lets the request through only if the authenticated role is one of roles.
// It must run after authMiddleware. An empty allow-list rejects everyone.
func roleMiddleware(roles ...auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if len(roles) == 0 || !claims.Role.In(roles...) {
				return errForbiddenRoles(roles)
			}
			return next(ctx)
		}
	}
}

func getContextClaims(ctx echo.Context) (auth.Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(auth.Claims); ok {
		return claims, nil
	}
	return auth.Claims{}, errNoToken
}

// allowed role sets
var (
	allRoles            = auth.AllRoles
	adminOnly           = []auth.Role{auth.RoleAdmin}
	teacherOnly         = []auth.Role{auth.RoleTeacher}
	hodOnly             = []auth.Role{auth.RoleHOD}
	principalOnly       = []auth.Role{auth.RolePrincipal}
	adminPrincipal      = []auth.Role{auth.RoleAdmin, auth.RolePrincipal}
	adminPrincipalHOD   = []auth.Role{auth.RoleAdmin, auth.RolePrincipal, auth.RoleHOD}
	adminHODTeacher     = []auth.Role{auth.RoleAdmin, auth.RoleHOD, auth.RoleTeacher}
	principalHOD        = []auth.Role{auth.RolePrincipal, auth.RoleHOD}
	teacherHODPrincipal = []auth.Role{auth.RoleTeacher, auth.RoleHOD, auth.RolePrincipal}
)
