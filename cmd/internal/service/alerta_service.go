package service

import (
	"fmt"
	"time"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

const (
	AlertaAsistencia = "asistencia"
	AlertaPago       = "pago"

	defaultDiasSinAsistir = 7
)

// AlertaConfig controls which alert types run and the absence threshold.
type AlertaConfig struct {
	AsistenciaHabilitada bool `json:"asistencia_habilitada"`
	PagoHabilitado       bool `json:"pago_habilitado"`
	DiasSinAsistir       int  `json:"dias_sin_asistir"`
}

func DefaultAlertaConfig() AlertaConfig {
	return AlertaConfig{
		AsistenciaHabilitada: true,
		PagoHabilitado:       true,
		DiasSinAsistir:       defaultDiasSinAsistir,
	}
}

type AlertaResponse struct {
	ID       string `json:"id"`
	Tipo     string `json:"tipo"`
	AlumnoID string `json:"alumno_id"`
	Alumno   string `json:"alumno"`
	Sede     string `json:"sede"`
	Mensaje  string `json:"mensaje"`
	Dias     int    `json:"dias,omitempty"`
}

// Alertas are computed on demand from the alumno roster, never stored.
type DefaultAlertaService struct {
	AlumnoRepo AlumnoRepository
}

func NewAlertaService(alumnoRepo AlumnoRepository) *DefaultAlertaService {
	return &DefaultAlertaService{AlumnoRepo: alumnoRepo}
}

func (s *DefaultAlertaService) GetAlertas(cfg AlertaConfig) ([]*AlertaResponse, apierror.ErrorResponse) {
	if cfg.DiasSinAsistir <= 0 {
		cfg.DiasSinAsistir = defaultDiasSinAsistir
	}

	alumnos, err := s.AlumnoRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch alumnos for alerts: %v", err)
		return nil, apierror.NewSimple(500, "Error al calcular las alertas")
	}

	hoy, err := utils.ParseDate(utils.TodayDate())
	if err != nil {
		log.Errorf("failed to parse today's date: %v", err)
		return nil, apierror.InternalServerError
	}

	alertas := []*AlertaResponse{}
	for _, alumno := range alumnos {
		if !alumno.Activo || !alumno.AlertasActivas {
			continue
		}

		if cfg.AsistenciaHabilitada {
			if a := absenceAlert(alumno, hoy, cfg.DiasSinAsistir); a != nil {
				alertas = append(alertas, a)
			}
		}
		if cfg.PagoHabilitado && alumno.EstadoPago == entity.PagoAtrasado {
			alertas = append(alertas, &AlertaResponse{
				ID:       fmt.Sprintf("%s-%s", AlertaPago, alumno.ID),
				Tipo:     AlertaPago,
				AlumnoID: alumno.ID,
				Alumno:   alumno.Nombre + " " + alumno.Apellido,
				Sede:     string(alumno.Sede),
				Mensaje:  "Tiene el pago atrasado",
			})
		}
	}
	return alertas, nil
}

func absenceAlert(alumno *entity.Alumno, hoy time.Time, umbral int) *AlertaResponse {
	if alumno.FechaUltimaAsistencia == "" {
		return nil
	}
	ultima, err := utils.ParseDate(alumno.FechaUltimaAsistencia)
	if err != nil {
		return nil
	}

	dias := int(hoy.Sub(ultima).Hours() / 24)
	if dias < umbral {
		return nil
	}
	return &AlertaResponse{
		ID:       fmt.Sprintf("%s-%s", AlertaAsistencia, alumno.ID),
		Tipo:     AlertaAsistencia,
		AlumnoID: alumno.ID,
		Alumno:   alumno.Nombre + " " + alumno.Apellido,
		Sede:     string(alumno.Sede),
		Mensaje:  fmt.Sprintf("No asiste hace %d días", dias),
		Dias:     dias,
	}
}
