package service

import (
	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AsistenciaRepository interface {
	FindByID(id string) (*entity.Asistencia, error)
	FindFiltered(q *repository.AsistenciaQuery) ([]*entity.Asistencia, int64, error)
	FindByAlumnoBetween(alumnoID, desde, hasta string) ([]*entity.Asistencia, error)
	FindBetween(desde, hasta string) ([]*entity.Asistencia, error)
	Save(asistencia *entity.Asistencia) error
	Delete(asistencia *entity.Asistencia) error
}

type AsistenciaRequest struct {
	AlumnoID string `json:"alumno_id" validate:"required"`
	Fecha    string `json:"fecha" validate:"required,dateonly"`
	Estado   string `json:"estado" validate:"required,oneof=presente ausente"`
	Sede     string `json:"sede" validate:"required,oneof='Plaza Arenales' 'Plaza Terán'"`
}

type AsistenciaResponse struct {
	ID        string          `json:"id"`
	AlumnoID  string          `json:"alumno_id"`
	Fecha     string          `json:"fecha"`
	Estado    string          `json:"estado"`
	Sede      string          `json:"sede"`
	Alumno    *AlumnoResponse `json:"alumno,omitempty"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type AsistenciaListResponse struct {
	Asistencias []*AsistenciaResponse `json:"asistencias"`
	Total       int64                 `json:"total"`
	TotalPages  int                   `json:"total_pages"`
}

type AsistenciaStatsResponse struct {
	Total              int            `json:"total"`
	PorcentajePresente float64        `json:"porcentaje_presente"`
	PorcentajeAusente  float64        `json:"porcentaje_ausente"`
	PorSede            map[string]int `json:"por_sede"`
	PorMes             map[int]int    `json:"por_mes"`
}

type DefaultAsistenciaService struct {
	AsistenciaRepo AsistenciaRepository
	AlumnoService  *DefaultAlumnoService
	Validate       *validator.Validate
}

func NewAsistenciaService(asistenciaRepo AsistenciaRepository, alumnoService *DefaultAlumnoService, validate *validator.Validate) *DefaultAsistenciaService {
	return &DefaultAsistenciaService{
		AsistenciaRepo: asistenciaRepo,
		AlumnoService:  alumnoService,
		Validate:       validate,
	}
}

func (s *DefaultAsistenciaService) GetAsistencias(q *repository.AsistenciaQuery) (*AsistenciaListResponse, apierror.ErrorResponse) {
	asistencias, total, err := s.AsistenciaRepo.FindFiltered(q)
	if err != nil {
		log.Errorf("failed to fetch asistencias: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener asistencias")
	}

	response := make([]*AsistenciaResponse, len(asistencias))
	for i, asistencia := range asistencias {
		response[i] = toAsistenciaResponse(asistencia)
	}
	return &AsistenciaListResponse{
		Asistencias: response,
		Total:       total,
		TotalPages:  totalPages(total, q.PerPage),
	}, nil
}

// CreateAsistencia records one attendance and, for "presente", keeps the
// alumno's last-attendance date and streak in sync.
func (s *DefaultAsistenciaService) CreateAsistencia(req *AsistenciaRequest) (*AsistenciaResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := utils.NowUTC()
	asistencia := &entity.Asistencia{
		AlumnoID:  req.AlumnoID,
		Fecha:     req.Fecha,
		Estado:    entity.EstadoAsistencia(req.Estado),
		Sede:      entity.Sede(req.Sede),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.AsistenciaRepo.Save(asistencia); err != nil {
		log.Errorf("failed to create asistencia: %v", err)
		return nil, apierror.NewSimple(500, "Error al crear asistencia")
	}

	if asistencia.Estado == entity.AsistenciaPresente {
		if apierr := s.AlumnoService.RegistrarAsistencia(req.AlumnoID, req.Fecha); apierr != nil {
			log.Warnf("attendance recorded but alumno %s tracking update failed", req.AlumnoID)
		}
	}
	return toAsistenciaResponse(asistencia), nil
}

func (s *DefaultAsistenciaService) UpdateAsistencia(id string, req *AsistenciaRequest) (*AsistenciaResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	asistencia, err := s.AsistenciaRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch asistencia %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar asistencia")
	}
	if asistencia == nil {
		return nil, apierror.NotFoundError
	}

	asistencia.AlumnoID = req.AlumnoID
	asistencia.Fecha = req.Fecha
	asistencia.Estado = entity.EstadoAsistencia(req.Estado)
	asistencia.Sede = entity.Sede(req.Sede)
	asistencia.UpdatedAt = utils.NowUTC()

	if err := s.AsistenciaRepo.Save(asistencia); err != nil {
		log.Errorf("failed to update asistencia %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar asistencia")
	}
	return toAsistenciaResponse(asistencia), nil
}

func (s *DefaultAsistenciaService) DeleteAsistencia(id string) apierror.ErrorResponse {
	asistencia, err := s.AsistenciaRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch asistencia %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar asistencia")
	}
	if asistencia == nil {
		return apierror.NotFoundError
	}

	if err := s.AsistenciaRepo.Delete(asistencia); err != nil {
		log.Errorf("failed to delete asistencia %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar asistencia")
	}
	return nil
}

func (s *DefaultAsistenciaService) GetEstadisticas(alumnoID, desde, hasta string) (*AsistenciaStatsResponse, apierror.ErrorResponse) {
	asistencias, err := s.AsistenciaRepo.FindByAlumnoBetween(alumnoID, desde, hasta)
	if err != nil {
		log.Errorf("failed to fetch asistencias for alumno %s: %v", alumnoID, err)
		return nil, apierror.NewSimple(500, "Error al obtener estadísticas de asistencia")
	}
	return asistenciaStats(asistencias), nil
}

func asistenciaStats(asistencias []*entity.Asistencia) *AsistenciaStatsResponse {
	stats := &AsistenciaStatsResponse{
		Total:   len(asistencias),
		PorSede: map[string]int{},
		PorMes:  map[int]int{},
	}

	presentes := 0
	for _, a := range asistencias {
		if a.Estado == entity.AsistenciaPresente {
			presentes++
		}
		stats.PorSede[string(a.Sede)]++
		if fecha, err := utils.ParseDate(a.Fecha); err == nil {
			stats.PorMes[int(fecha.Month())]++
		}
	}

	if stats.Total > 0 {
		stats.PorcentajePresente = float64(presentes) / float64(stats.Total) * 100
		stats.PorcentajeAusente = 100 - stats.PorcentajePresente
	}
	return stats
}

func toAsistenciaResponse(asistencia *entity.Asistencia) *AsistenciaResponse {
	resp := &AsistenciaResponse{
		ID:        asistencia.ID,
		AlumnoID:  asistencia.AlumnoID,
		Fecha:     asistencia.Fecha,
		Estado:    string(asistencia.Estado),
		Sede:      string(asistencia.Sede),
		CreatedAt: utils.FormatEpoch(asistencia.CreatedAt),
		UpdatedAt: utils.FormatEpoch(asistencia.UpdatedAt),
	}
	if asistencia.Alumno != nil {
		resp.Alumno = toAlumnoResponse(asistencia.Alumno)
	}
	return resp
}
