package routes

import (
	"net/http"

	"gymadmin/cmd/internal/service"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type TurnoService interface {
	GetTurnos() ([]*service.TurnoResponse, apierror.ErrorResponse)
	GetTurno(id string) (*service.TurnoResponse, apierror.ErrorResponse)
	CreateTurno(req *service.TurnoRequest) (*service.TurnoResponse, apierror.ErrorResponse)
	UpdateTurno(id string, req *service.TurnoRequest) (*service.TurnoResponse, apierror.ErrorResponse)
	DeleteTurno(id string) apierror.ErrorResponse
}

type DefaultTurnoRoute struct {
	TurnoService TurnoService
}

func NewTurnoDefault(turnoService TurnoService) *DefaultTurnoRoute {
	return &DefaultTurnoRoute{TurnoService: turnoService}
}

func (r *DefaultTurnoRoute) GetTurnos(c echo.Context) error {
	turnos, apierr := r.TurnoService.GetTurnos()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"turnos": turnos}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultTurnoRoute) GetTurno(c echo.Context) error {
	turno, apierr := r.TurnoService.GetTurno(c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, turno)
}

func (r *DefaultTurnoRoute) CreateTurno(c echo.Context) error {
	var req service.TurnoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	turno, apierr := r.TurnoService.CreateTurno(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, turno)
}

func (r *DefaultTurnoRoute) UpdateTurno(c echo.Context) error {
	var req service.TurnoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	turno, apierr := r.TurnoService.UpdateTurno(c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, turno)
}

func (r *DefaultTurnoRoute) DeleteTurno(c echo.Context) error {
	if apierr := r.TurnoService.DeleteTurno(c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
