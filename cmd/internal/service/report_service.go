package service

import (
	"fmt"
	"time"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type DashboardResponse struct {
	Mes             int     `json:"mes"`
	Anio            int     `json:"anio"`
	AlumnosActivos  int     `json:"alumnos_activos"`
	AsistenciasMes  int     `json:"asistencias_mes"`
	IngresosMes     float64 `json:"ingresos_mes"`
	PagosPendientes int     `json:"pagos_pendientes"`
}

type AsistenciaPorDia struct {
	Dia      string `json:"dia"`
	Cantidad int    `json:"cantidad"`
}

type IngresoMensual struct {
	Mes   int     `json:"mes"`
	Total float64 `json:"total"`
}

type EstadoAlumnosResponse struct {
	AlDia      int `json:"al_dia"`
	Pendientes int `json:"pendientes"`
	Atrasados  int `json:"atrasados"`
}

type DefaultReportService struct {
	AlumnoRepo     AlumnoRepository
	AsistenciaRepo AsistenciaRepository
	PagoRepo       PagoRepository
}

func NewReportService(alumnoRepo AlumnoRepository, asistenciaRepo AsistenciaRepository, pagoRepo PagoRepository) *DefaultReportService {
	return &DefaultReportService{
		AlumnoRepo:     alumnoRepo,
		AsistenciaRepo: asistenciaRepo,
		PagoRepo:       pagoRepo,
	}
}

func (s *DefaultReportService) GetDashboard(anio int, mes time.Month) (*DashboardResponse, apierror.ErrorResponse) {
	desde, hasta := utils.MonthBounds(anio, mes)

	alumnos, err := s.AlumnoRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch alumnos for dashboard: %v", err)
		return nil, apierror.NewSimple(500, "Error al generar el reporte")
	}

	activos := 0
	atrasados := 0
	for _, alumno := range alumnos {
		if alumno.Activo {
			activos++
		}
		if alumno.Activo && alumno.EstadoPago == entity.PagoAtrasado {
			atrasados++
		}
	}

	asistencias, err := s.AsistenciaRepo.FindBetween(desde, hasta)
	if err != nil {
		log.Errorf("failed to fetch asistencias for dashboard: %v", err)
		return nil, apierror.NewSimple(500, "Error al generar el reporte")
	}
	presentes := 0
	for _, a := range asistencias {
		if a.Estado == entity.AsistenciaPresente {
			presentes++
		}
	}

	pagos, err := s.PagoRepo.FindFiltered(&repository.PagoQuery{FechaDesde: desde, FechaHasta: hasta})
	if err != nil {
		log.Errorf("failed to fetch pagos for dashboard: %v", err)
		return nil, apierror.NewSimple(500, "Error al generar el reporte")
	}
	var ingresos float64
	for _, p := range pagos {
		if p.Estado == entity.PagoPagado {
			ingresos += p.Monto
		}
	}

	return &DashboardResponse{
		Mes:             int(mes),
		Anio:            anio,
		AlumnosActivos:  activos,
		AsistenciasMes:  presentes,
		IngresosMes:     ingresos,
		PagosPendientes: atrasados,
	}, nil
}

// GetTendenciaAsistencias counts the month's attendances per weekday,
// Monday through Friday.
func (s *DefaultReportService) GetTendenciaAsistencias(anio int, mes time.Month) ([]AsistenciaPorDia, apierror.ErrorResponse) {
	desde, hasta := utils.MonthBounds(anio, mes)

	asistencias, err := s.AsistenciaRepo.FindBetween(desde, hasta)
	if err != nil {
		log.Errorf("failed to fetch asistencias for trend: %v", err)
		return nil, apierror.NewSimple(500, "Error al generar el reporte")
	}

	porDia := map[time.Weekday]int{}
	for _, a := range asistencias {
		if a.Estado != entity.AsistenciaPresente {
			continue
		}
		fecha, err := utils.ParseDate(a.Fecha)
		if err != nil {
			continue
		}
		porDia[fecha.Weekday()]++
	}

	dias := []struct {
		dia    time.Weekday
		nombre string
	}{
		{time.Monday, "Lunes"},
		{time.Tuesday, "Martes"},
		{time.Wednesday, "Miércoles"},
		{time.Thursday, "Jueves"},
		{time.Friday, "Viernes"},
	}

	response := make([]AsistenciaPorDia, len(dias))
	for i, d := range dias {
		response[i] = AsistenciaPorDia{Dia: d.nombre, Cantidad: porDia[d.dia]}
	}
	return response, nil
}

// GetTendenciaIngresos totals paid pagos per month of a year.
func (s *DefaultReportService) GetTendenciaIngresos(anio int) ([]IngresoMensual, apierror.ErrorResponse) {
	desde := fmt.Sprintf("%d-01-01", anio)
	hasta := fmt.Sprintf("%d-12-31", anio)

	pagos, err := s.PagoRepo.FindFiltered(&repository.PagoQuery{FechaDesde: desde, FechaHasta: hasta})
	if err != nil {
		log.Errorf("failed to fetch pagos for income trend: %v", err)
		return nil, apierror.NewSimple(500, "Error al generar el reporte")
	}

	porMes := map[int]float64{}
	for _, p := range pagos {
		if p.Estado != entity.PagoPagado {
			continue
		}
		porMes[p.Mes] += p.Monto
	}

	response := make([]IngresoMensual, 12)
	for mes := 1; mes <= 12; mes++ {
		response[mes-1] = IngresoMensual{Mes: mes, Total: porMes[mes]}
	}
	return response, nil
}

func (s *DefaultReportService) GetEstadoAlumnos() (*EstadoAlumnosResponse, apierror.ErrorResponse) {
	alumnos, err := s.AlumnoRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch alumnos for status summary: %v", err)
		return nil, apierror.NewSimple(500, "Error al generar el reporte")
	}

	resp := &EstadoAlumnosResponse{}
	for _, alumno := range alumnos {
		if !alumno.Activo {
			continue
		}
		switch alumno.EstadoPago {
		case entity.PagoAlDia:
			resp.AlDia++
		case entity.PagoPend:
			resp.Pendientes++
		case entity.PagoAtrasado:
			resp.Atrasados++
		}
	}
	return resp, nil
}
