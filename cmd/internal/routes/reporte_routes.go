package routes

import (
	"net/http"
	"time"

	"gymadmin/cmd/internal/service"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ReportService interface {
	GetDashboard(anio int, mes time.Month) (*service.DashboardResponse, apierror.ErrorResponse)
	GetTendenciaAsistencias(anio int, mes time.Month) ([]service.AsistenciaPorDia, apierror.ErrorResponse)
	GetTendenciaIngresos(anio int) ([]service.IngresoMensual, apierror.ErrorResponse)
	GetEstadoAlumnos() (*service.EstadoAlumnosResponse, apierror.ErrorResponse)
}

type AlertaService interface {
	GetAlertas(cfg service.AlertaConfig) ([]*service.AlertaResponse, apierror.ErrorResponse)
}

type DefaultReporteRoute struct {
	ReportService ReportService
	AlertaService AlertaService
}

func NewReporteDefault(reportService ReportService, alertaService AlertaService) *DefaultReporteRoute {
	return &DefaultReporteRoute{ReportService: reportService, AlertaService: alertaService}
}

func (r *DefaultReporteRoute) GetDashboard(c echo.Context) error {
	anio, mes, apierr := monthParams(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	dashboard, apierr := r.ReportService.GetDashboard(anio, mes)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, dashboard)
}

func (r *DefaultReporteRoute) GetTendenciaAsistencias(c echo.Context) error {
	anio, mes, apierr := monthParams(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	tendencia, apierr := r.ReportService.GetTendenciaAsistencias(anio, mes)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"asistencias_por_dia": tendencia}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultReporteRoute) GetTendenciaIngresos(c echo.Context) error {
	anio, apierr := intQueryParam(c, "anio", time.Now().UTC().Year())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	tendencia, apierr := r.ReportService.GetTendenciaIngresos(anio)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"ingresos_por_mes": tendencia}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultReporteRoute) GetEstadoAlumnos(c echo.Context) error {
	estado, apierr := r.ReportService.GetEstadoAlumnos()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, estado)
}

func (r *DefaultReporteRoute) GetAlertas(c echo.Context) error {
	cfg := service.DefaultAlertaConfig()
	if raw := c.QueryParam("asistencia"); raw != "" {
		cfg.AsistenciaHabilitada = raw == "true"
	}
	if raw := c.QueryParam("pago"); raw != "" {
		cfg.PagoHabilitado = raw == "true"
	}
	dias, apierr := intQueryParam(c, "dias_sin_asistir", cfg.DiasSinAsistir)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	cfg.DiasSinAsistir = dias

	alertas, apierr := r.AlertaService.GetAlertas(cfg)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"alertas": alertas}
	return c.JSON(http.StatusOK, &resp)
}

func monthParams(c echo.Context) (int, time.Month, apierror.ErrorResponse) {
	now := time.Now().UTC()

	anio, apierr := intQueryParam(c, "anio", now.Year())
	if apierr != nil {
		return 0, 0, apierr
	}
	mes, apierr := intQueryParam(c, "mes", int(now.Month()))
	if apierr != nil {
		return 0, 0, apierr
	}
	if mes < 1 || mes > 12 {
		return 0, 0, apierror.NewSimple(400, "El mes debe estar entre 1 y 12")
	}
	return anio, time.Month(mes), nil
}
