package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core/auth"
	"github.com/trezcool/educore/core/user"
)

const msgLoggedOut = "Logged out. Discard your token on the client."

type authApi struct {
	svc      *user.Service
	codec    *auth.TokenCodec
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *user.Service, codec *auth.TokenCodec, validate *validator.Validate) {
	api := authApi{svc: svc, codec: codec, validate: validate}

	// un-authed endpoints
	g.POST("/login", api.login)

	// authed endpoints
	g.POST("/logout", api.logout, authed, roleMiddleware(allRoles...))
	g.GET("/me", api.me, authed, roleMiddleware(allRoles...))
}

type loginResponse struct {
	Token string       `json:"token"`
	User  user.Profile `json:"user"`
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.LoginRequest
	if err := bind(ctx, &data, api.validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	usr, err := api.svc.Authenticate(reqCtx, data)
	if err != nil {
		return err
	}
	claims, err := api.svc.Claims(reqCtx, usr)
	if err != nil {
		return errors.Wrap(err, "building claims")
	}
	token, err := api.codec.Issue(claims)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}
	return ok(ctx, loginResponse{Token: token, User: usr.Profile()})
}

// logout is a no-op server side: tokens are stateless.
func (api *authApi) logout(ctx echo.Context) error {
	return okMessage(ctx, msgLoggedOut)
}

func (api *authApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	usr, err := api.svc.GetByID(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return ok(ctx, usr)
}
