package routes

import (
	"net/http"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/service"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AlumnoService interface {
	GetAlumnos(q *repository.AlumnoQuery) (*service.AlumnoListResponse, apierror.ErrorResponse)
	GetAlumno(id string) (*service.AlumnoResponse, apierror.ErrorResponse)
	CreateAlumno(req *service.AlumnoRequest) (*service.AlumnoResponse, apierror.ErrorResponse)
	UpdateAlumno(id string, req *service.AlumnoRequest) (*service.AlumnoResponse, apierror.ErrorResponse)
	DeleteAlumno(id string) apierror.ErrorResponse
	UpdateEstadoPago(id, estado string) apierror.ErrorResponse
	ResetRacha(id string) apierror.ErrorResponse
}

type DefaultAlumnoRoute struct {
	AlumnoService AlumnoService
}

func NewAlumnoDefault(alumnoService AlumnoService) *DefaultAlumnoRoute {
	return &DefaultAlumnoRoute{AlumnoService: alumnoService}
}

func (r *DefaultAlumnoRoute) GetAlumnos(c echo.Context) error {
	page, apierr := intQueryParam(c, "page", 1)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	perPage, apierr := intQueryParam(c, "per_page", 20)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	q := &repository.AlumnoQuery{
		Page:       page,
		PerPage:    perPage,
		OrderBy:    c.QueryParam("order_by"),
		OrderDesc:  c.QueryParam("order") == "desc",
		Sede:       entity.Sede(c.QueryParam("sede")),
		EstadoPago: entity.EstadoPago(c.QueryParam("estado_pago")),
	}
	if raw := c.QueryParam("activo"); raw != "" {
		activo := raw == "true"
		q.Activo = &activo
	}

	alumnos, apierr := r.AlumnoService.GetAlumnos(q)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, alumnos)
}

func (r *DefaultAlumnoRoute) GetAlumno(c echo.Context) error {
	alumno, apierr := r.AlumnoService.GetAlumno(c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, alumno)
}

func (r *DefaultAlumnoRoute) CreateAlumno(c echo.Context) error {
	var req service.AlumnoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	alumno, apierr := r.AlumnoService.CreateAlumno(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, alumno)
}

func (r *DefaultAlumnoRoute) UpdateAlumno(c echo.Context) error {
	var req service.AlumnoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	alumno, apierr := r.AlumnoService.UpdateAlumno(c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, alumno)
}

func (r *DefaultAlumnoRoute) DeleteAlumno(c echo.Context) error {
	if apierr := r.AlumnoService.DeleteAlumno(c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (r *DefaultAlumnoRoute) UpdateEstadoPago(c echo.Context) error {
	var body struct {
		EstadoPago string `json:"estado_pago"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	if apierr := r.AlumnoService.UpdateEstadoPago(c.Param("id"), body.EstadoPago); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (r *DefaultAlumnoRoute) ResetRacha(c echo.Context) error {
	if apierr := r.AlumnoService.ResetRacha(c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
