package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/account"
)

type accountAPI struct {
	service *account.Service
	conf    *core.Config
}

func registerAccountAPI(g *echo.Group, svc *account.Service, conf *core.Config) {
	api := accountAPI{service: svc, conf: conf}

	g.POST("/signup", api.signup)
	g.POST("/login", api.login)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student teacher"`
}

func (lr *LoginRequest) Validate(ctx context.Context) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return core.Validate.StructCtx(ctx, lr)
}

type LoginResponse struct {
	account.Auth
	Token string `json:"token"`
}

// Handlers

func (api *accountAPI) signup(ctx echo.Context) error {
	data := new(account.NewAccount)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	if _, err := api.service.Register(ctx.Request().Context(), *data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, messageResponse{Message: "Signup successful"})
}

func (api *accountAPI) login(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(ctx.Request().Context()); err != nil {
		return err
	}

	auth, err := api.service.Authenticate(ctx.Request().Context(), data.Username, data.Password, data.Role)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.conf, GetAuthClaims(api.conf, auth))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Auth: auth, Token: token})
}
