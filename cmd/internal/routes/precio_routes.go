package routes

import (
	"net/http"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/service"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type PrecioService interface {
	GetHistorial(q *repository.PrecioQuery) ([]*service.PrecioResponse, apierror.ErrorResponse)
	GetVigente(servicio, fecha string) (*service.PrecioResponse, apierror.ErrorResponse)
	CreatePrecio(req *service.PrecioRequest) (*service.PrecioResponse, apierror.ErrorResponse)
	UpdatePrecio(id string, req *service.PrecioRequest) (*service.PrecioResponse, apierror.ErrorResponse)
	DeletePrecio(id string) apierror.ErrorResponse
	GetTendencia(servicio, desde, hasta string, tipo, moneda string) (*service.TendenciaPreciosResponse, apierror.ErrorResponse)
	VerificarIncrementos() ([]*service.PrecioResponse, apierror.ErrorResponse)
}

type DefaultPrecioRoute struct {
	PrecioService PrecioService
}

func NewPrecioDefault(precioService PrecioService) *DefaultPrecioRoute {
	return &DefaultPrecioRoute{PrecioService: precioService}
}

func (r *DefaultPrecioRoute) GetHistorial(c echo.Context) error {
	q := &repository.PrecioQuery{
		Servicio:     c.QueryParam("servicio"),
		Fecha:        c.QueryParam("fecha"),
		SoloActivos:  c.QueryParam("solo_activos") == "true",
		TipoServicio: entity.TipoServicio(c.QueryParam("tipo_servicio")),
		Moneda:       entity.Moneda(c.QueryParam("moneda")),
	}

	precios, apierr := r.PrecioService.GetHistorial(q)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"precios": precios}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultPrecioRoute) GetVigente(c echo.Context) error {
	servicio := c.QueryParam("servicio")
	if servicio == "" {
		return c.JSON(400, apierror.NewMissingParamError("servicio"))
	}

	precio, apierr := r.PrecioService.GetVigente(servicio, c.QueryParam("fecha"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, precio)
}

func (r *DefaultPrecioRoute) CreatePrecio(c echo.Context) error {
	var req service.PrecioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	precio, apierr := r.PrecioService.CreatePrecio(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, precio)
}

func (r *DefaultPrecioRoute) UpdatePrecio(c echo.Context) error {
	var req service.PrecioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	precio, apierr := r.PrecioService.UpdatePrecio(c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, precio)
}

func (r *DefaultPrecioRoute) DeletePrecio(c echo.Context) error {
	if apierr := r.PrecioService.DeletePrecio(c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (r *DefaultPrecioRoute) GetTendencia(c echo.Context) error {
	servicio := c.QueryParam("servicio")
	if servicio == "" {
		return c.JSON(400, apierror.NewMissingParamError("servicio"))
	}
	desde := c.QueryParam("desde")
	if desde == "" {
		return c.JSON(400, apierror.NewMissingParamError("desde"))
	}
	hasta := c.QueryParam("hasta")
	if hasta == "" {
		return c.JSON(400, apierror.NewMissingParamError("hasta"))
	}

	tendencia, apierr := r.PrecioService.GetTendencia(servicio, desde, hasta, c.QueryParam("tipo_servicio"), c.QueryParam("moneda"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, tendencia)
}

func (r *DefaultPrecioRoute) VerificarIncrementos(c echo.Context) error {
	afectados, apierr := r.PrecioService.VerificarIncrementos()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"precios": afectados}
	return c.JSON(http.StatusOK, &resp)
}
