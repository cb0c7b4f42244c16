package routes

import (
	"net/http"
	"strconv"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/service"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CitaService interface {
	GetCitas(q *repository.CitaQuery) ([]*service.CitaResponse, apierror.ErrorResponse)
	GetCita(id string) (*service.CitaResponse, apierror.ErrorResponse)
	CreateCita(req *service.CitaRequest) (*service.CitaResponse, apierror.ErrorResponse)
	UpdateCita(id string, req *service.CitaRequest) (*service.CitaResponse, apierror.ErrorResponse)
	DeleteCita(id string) apierror.ErrorResponse
	CheckAvailability(date, timeStr string, duration, buffer int, excludeID string) (*service.AvailabilityResponse, apierror.ErrorResponse)
	GetConflicts(date string) ([]*service.ConflictInfo, apierror.ErrorResponse)
	GetStats() (*service.CitaStatsResponse, apierror.ErrorResponse)
	ExportCitas(q *repository.CitaQuery, format string) (string, apierror.ErrorResponse)
}

type DefaultCitaRoute struct {
	CitaService CitaService
}

func NewCitaDefault(citaService CitaService) *DefaultCitaRoute {
	return &DefaultCitaRoute{CitaService: citaService}
}

func (r *DefaultCitaRoute) GetCitas(c echo.Context) error {
	citas, apierr := r.CitaService.GetCitas(citaQueryFromCtx(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"citas": citas}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultCitaRoute) GetCita(c echo.Context) error {
	cita, apierr := r.CitaService.GetCita(c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, cita)
}

func (r *DefaultCitaRoute) CreateCita(c echo.Context) error {
	var req service.CitaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	cita, apierr := r.CitaService.CreateCita(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, cita)
}

func (r *DefaultCitaRoute) UpdateCita(c echo.Context) error {
	var req service.CitaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	cita, apierr := r.CitaService.UpdateCita(c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, cita)
}

func (r *DefaultCitaRoute) DeleteCita(c echo.Context) error {
	if apierr := r.CitaService.DeleteCita(c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (r *DefaultCitaRoute) GetAvailability(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(400, apierror.NewMissingParamError("date"))
	}
	timeStr := c.QueryParam("time")
	if timeStr == "" {
		return c.JSON(400, apierror.NewMissingParamError("time"))
	}

	duration, apierr := intQueryParam(c, "duration", 60)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	buffer, apierr := intQueryParam(c, "buffer", 0)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	availability, apierr := r.CitaService.CheckAvailability(date, timeStr, duration, buffer, c.QueryParam("exclude_id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, availability)
}

func (r *DefaultCitaRoute) GetConflicts(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(400, apierror.NewMissingParamError("date"))
	}

	conflicts, apierr := r.CitaService.GetConflicts(date)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"conflictos": conflicts}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultCitaRoute) GetStats(c echo.Context) error {
	stats, apierr := r.CitaService.GetStats()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, stats)
}

func (r *DefaultCitaRoute) ExportCitas(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}

	content, apierr := r.CitaService.ExportCitas(citaQueryFromCtx(c), format)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	contentType := "text/csv; charset=utf-8"
	filename := "citas.csv"
	if format == "ical" {
		contentType = "text/calendar; charset=utf-8"
		filename = "citas.ics"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, contentType, []byte(content))
}

func citaQueryFromCtx(c echo.Context) *repository.CitaQuery {
	return &repository.CitaQuery{
		DateFrom: c.QueryParam("date_from"),
		DateTo:   c.QueryParam("date_to"),
		Status:   entity.CitaStatus(c.QueryParam("status")),
		AlumnoID: c.QueryParam("alumno_id"),
		Type:     entity.CitaType(c.QueryParam("type")),
	}
}

func intQueryParam(c echo.Context, name string, def int) (int, apierror.ErrorResponse) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError(name, "number")
	}
	return val, nil
}
