package routes

import (
	"net/http"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/service"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type PagoService interface {
	GetPagos(page, pageSize int, orderBy string, desc bool) (*service.PagoListResponse, apierror.ErrorResponse)
	GetPagosFiltered(q *repository.PagoQuery) ([]*service.PagoResponse, apierror.ErrorResponse)
	CreatePago(req *service.PagoRequest) (*service.PagoResponse, apierror.ErrorResponse)
	CreatePagosBulk(reqs []*service.PagoRequest) ([]*service.PagoResponse, apierror.ErrorResponse)
	UpdatePago(id string, req *service.PagoRequest) (*service.PagoResponse, apierror.ErrorResponse)
	DeletePago(id string) apierror.ErrorResponse
	GetResumen(desde, hasta string) (*service.ResumenPagosResponse, apierror.ErrorResponse)
	GetEstadisticas(desde, hasta string) (*service.EstadisticasPagosResponse, apierror.ErrorResponse)
}

type DefaultPagoRoute struct {
	PagoService PagoService
}

func NewPagoDefault(pagoService PagoService) *DefaultPagoRoute {
	return &DefaultPagoRoute{PagoService: pagoService}
}

func (r *DefaultPagoRoute) GetPagos(c echo.Context) error {
	// With any filter present the full filtered list is returned,
	// otherwise a plain page.
	q := &repository.PagoQuery{
		AlumnoID:   c.QueryParam("alumno_id"),
		Estado:     entity.EstadoDePago(c.QueryParam("estado")),
		MetodoPago: entity.MetodoPago(c.QueryParam("metodo_pago")),
		FechaDesde: c.QueryParam("desde"),
		FechaHasta: c.QueryParam("hasta"),
	}
	if *q != (repository.PagoQuery{}) {
		pagos, apierr := r.PagoService.GetPagosFiltered(q)
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}
		resp := echo.Map{"pagos": pagos}
		return c.JSON(http.StatusOK, &resp)
	}

	page, apierr := intQueryParam(c, "page", 1)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	perPage, apierr := intQueryParam(c, "per_page", 20)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	pagos, apierr := r.PagoService.GetPagos(page, perPage, c.QueryParam("order_by"), c.QueryParam("order") == "desc")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, pagos)
}

func (r *DefaultPagoRoute) CreatePago(c echo.Context) error {
	var req service.PagoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	pago, apierr := r.PagoService.CreatePago(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, pago)
}

func (r *DefaultPagoRoute) CreatePagosBulk(c echo.Context) error {
	var body struct {
		Pagos []*service.PagoRequest `json:"pagos"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}
	if len(body.Pagos) == 0 {
		return c.JSON(400, apierror.NewMissingParamError("pagos"))
	}

	pagos, apierr := r.PagoService.CreatePagosBulk(body.Pagos)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"pagos": pagos}
	return c.JSON(http.StatusCreated, &resp)
}

func (r *DefaultPagoRoute) UpdatePago(c echo.Context) error {
	var req service.PagoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	pago, apierr := r.PagoService.UpdatePago(c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, pago)
}

func (r *DefaultPagoRoute) DeletePago(c echo.Context) error {
	if apierr := r.PagoService.DeletePago(c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (r *DefaultPagoRoute) GetResumen(c echo.Context) error {
	resumen, apierr := r.PagoService.GetResumen(c.QueryParam("desde"), c.QueryParam("hasta"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resumen)
}

func (r *DefaultPagoRoute) GetEstadisticas(c echo.Context) error {
	stats, apierr := r.PagoService.GetEstadisticas(c.QueryParam("desde"), c.QueryParam("hasta"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, stats)
}
