package routes

import (
	"net/http"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/service"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type NotaService interface {
	GetNotas(q *repository.NotaQuery) (*service.NotaListResponse, apierror.ErrorResponse)
	GetNota(id string) (*service.NotaResponse, apierror.ErrorResponse)
	CreateNota(req *service.NotaRequest) (*service.NotaResponse, apierror.ErrorResponse)
	UpdateNota(id string, req *service.NotaRequest) (*service.NotaResponse, apierror.ErrorResponse)
	DeleteNota(id string) apierror.ErrorResponse
	GetNotasPorPeriodo(alumnoID, desde, hasta string) ([]*service.NotaResponse, apierror.ErrorResponse)
	GetEstadisticas(alumnoID, desde, hasta string) (*service.NotaStatsResponse, apierror.ErrorResponse)
}

type DefaultNotaRoute struct {
	NotaService NotaService
}

func NewNotaDefault(notaService NotaService) *DefaultNotaRoute {
	return &DefaultNotaRoute{NotaService: notaService}
}

func (r *DefaultNotaRoute) GetNotas(c echo.Context) error {
	page, apierr := intQueryParam(c, "page", 1)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	perPage, apierr := intQueryParam(c, "per_page", 20)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	q := &repository.NotaQuery{
		Page:       page,
		PerPage:    perPage,
		OrderBy:    c.QueryParam("order_by"),
		OrderDesc:  c.QueryParam("order") == "desc",
		AlumnoID:   c.QueryParam("alumno_id"),
		Tipo:       entity.TipoNota(c.QueryParam("tipo")),
		Categoria:  c.QueryParam("categoria"),
		FechaDesde: c.QueryParam("desde"),
		FechaHasta: c.QueryParam("hasta"),
	}
	if raw := c.QueryParam("visible_en_reporte"); raw != "" {
		visible := raw == "true"
		q.VisibleEnReporte = &visible
	}
	if raw := c.QueryParam("calificacion_min"); raw != "" {
		min, apierr := intQueryParam(c, "calificacion_min", 0)
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}
		q.CalificacionMin = &min
	}
	if raw := c.QueryParam("calificacion_max"); raw != "" {
		max, apierr := intQueryParam(c, "calificacion_max", 0)
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}
		q.CalificacionMax = &max
	}

	notas, apierr := r.NotaService.GetNotas(q)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, notas)
}

func (r *DefaultNotaRoute) GetNota(c echo.Context) error {
	nota, apierr := r.NotaService.GetNota(c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, nota)
}

func (r *DefaultNotaRoute) CreateNota(c echo.Context) error {
	var req service.NotaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	nota, apierr := r.NotaService.CreateNota(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, nota)
}

func (r *DefaultNotaRoute) UpdateNota(c echo.Context) error {
	var req service.NotaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	nota, apierr := r.NotaService.UpdateNota(c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, nota)
}

func (r *DefaultNotaRoute) DeleteNota(c echo.Context) error {
	if apierr := r.NotaService.DeleteNota(c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (r *DefaultNotaRoute) GetNotasPorPeriodo(c echo.Context) error {
	alumnoID := c.QueryParam("alumno_id")
	if alumnoID == "" {
		return c.JSON(400, apierror.NewMissingParamError("alumno_id"))
	}

	notas, apierr := r.NotaService.GetNotasPorPeriodo(alumnoID, c.QueryParam("desde"), c.QueryParam("hasta"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"notas": notas}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultNotaRoute) GetEstadisticas(c echo.Context) error {
	stats, apierr := r.NotaService.GetEstadisticas(
		c.QueryParam("alumno_id"),
		c.QueryParam("desde"),
		c.QueryParam("hasta"),
	)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, stats)
}
