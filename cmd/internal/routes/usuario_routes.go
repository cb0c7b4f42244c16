package routes

import (
	"net/http"

	"gymadmin/cmd/internal/service"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UsuarioService interface {
	Register(req *service.RegisterRequest) (*service.UsuarioResponse, apierror.ErrorResponse)
	Login(req *service.LoginRequest) (*service.LoginResponse, apierror.ErrorResponse)
	GetMe(data *utils.TokenData) (*service.UsuarioResponse, apierror.ErrorResponse)
}

type DefaultUsuarioRoute struct {
	UsuarioService UsuarioService
}

func NewUsuarioDefault(usuarioService UsuarioService) *DefaultUsuarioRoute {
	return &DefaultUsuarioRoute{UsuarioService: usuarioService}
}

func (r *DefaultUsuarioRoute) Register(c echo.Context) error {
	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	usuario, apierr := r.UsuarioService.Register(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, usuario)
}

func (r *DefaultUsuarioRoute) Login(c echo.Context) error {
	var req service.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	login, apierr := r.UsuarioService.Login(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, login)
}

func (r *DefaultUsuarioRoute) GetMe(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	usuario, apierr := r.UsuarioService.GetMe(data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, usuario)
}
