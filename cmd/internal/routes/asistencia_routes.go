package routes

import (
	"net/http"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/service"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AsistenciaService interface {
	GetAsistencias(q *repository.AsistenciaQuery) (*service.AsistenciaListResponse, apierror.ErrorResponse)
	CreateAsistencia(req *service.AsistenciaRequest) (*service.AsistenciaResponse, apierror.ErrorResponse)
	UpdateAsistencia(id string, req *service.AsistenciaRequest) (*service.AsistenciaResponse, apierror.ErrorResponse)
	DeleteAsistencia(id string) apierror.ErrorResponse
	GetEstadisticas(alumnoID, desde, hasta string) (*service.AsistenciaStatsResponse, apierror.ErrorResponse)
}

type DefaultAsistenciaRoute struct {
	AsistenciaService AsistenciaService
}

func NewAsistenciaDefault(asistenciaService AsistenciaService) *DefaultAsistenciaRoute {
	return &DefaultAsistenciaRoute{AsistenciaService: asistenciaService}
}

func (r *DefaultAsistenciaRoute) GetAsistencias(c echo.Context) error {
	page, apierr := intQueryParam(c, "page", 1)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	perPage, apierr := intQueryParam(c, "per_page", 20)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	q := &repository.AsistenciaQuery{
		Page:      page,
		PerPage:   perPage,
		OrderBy:   c.QueryParam("order_by"),
		OrderDesc: c.QueryParam("order") == "desc",
		AlumnoID:  c.QueryParam("alumno_id"),
		Estado:    entity.EstadoAsistencia(c.QueryParam("estado")),
		Sede:      entity.Sede(c.QueryParam("sede")),
		Fecha:     c.QueryParam("fecha"),
	}

	asistencias, apierr := r.AsistenciaService.GetAsistencias(q)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, asistencias)
}

func (r *DefaultAsistenciaRoute) CreateAsistencia(c echo.Context) error {
	var req service.AsistenciaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	asistencia, apierr := r.AsistenciaService.CreateAsistencia(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, asistencia)
}

func (r *DefaultAsistenciaRoute) UpdateAsistencia(c echo.Context) error {
	var req service.AsistenciaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	asistencia, apierr := r.AsistenciaService.UpdateAsistencia(c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, asistencia)
}

func (r *DefaultAsistenciaRoute) DeleteAsistencia(c echo.Context) error {
	if apierr := r.AsistenciaService.DeleteAsistencia(c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (r *DefaultAsistenciaRoute) GetEstadisticas(c echo.Context) error {
	stats, apierr := r.AsistenciaService.GetEstadisticas(
		c.QueryParam("alumno_id"),
		c.QueryParam("desde"),
		c.QueryParam("hasta"),
	)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, stats)
}
