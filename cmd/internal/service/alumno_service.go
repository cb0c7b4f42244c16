package service

import (
	"time"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AlumnoRepository interface {
	FindByID(id string) (*entity.Alumno, error)
	FindAll() ([]*entity.Alumno, error)
	FindFiltered(q *repository.AlumnoQuery) ([]*entity.Alumno, int64, error)
	Save(alumno *entity.Alumno) error
	Delete(alumno *entity.Alumno) error
}

type AlumnoRequest struct {
	Nombre         string `json:"nombre" validate:"required,min=2,max=80"`
	Apellido       string `json:"apellido" validate:"required,min=2,max=80"`
	Email          string `json:"email" validate:"omitempty,email"`
	Telefono       string `json:"telefono" validate:"omitempty,max=30"`
	Sede           string `json:"sede" validate:"omitempty,oneof='Plaza Arenales' 'Plaza Terán'"`
	Activo         *bool  `json:"activo"`
	AlertasActivas *bool  `json:"alertas_activas"`
	EstadoPago     string `json:"estado_pago" validate:"omitempty,oneof=al_dia pendiente atrasado"`
}

type AlumnoResponse struct {
	ID                         string `json:"id"`
	Nombre                     string `json:"nombre"`
	Apellido                   string `json:"apellido"`
	Email                      string `json:"email,omitempty"`
	Telefono                   string `json:"telefono,omitempty"`
	Sede                       string `json:"sede,omitempty"`
	Activo                     bool   `json:"activo"`
	AlertasActivas             bool   `json:"alertas_activas"`
	FechaUltimaAsistencia      string `json:"fecha_ultima_asistencia,omitempty"`
	DiasConsecutivosAsistencia int    `json:"dias_consecutivos_asistencia"`
	EstadoPago                 string `json:"estado_pago"`
	CreatedAt                  string `json:"created_at"`
	UpdatedAt                  string `json:"updated_at"`
}

type AlumnoListResponse struct {
	Alumnos    []*AlumnoResponse `json:"alumnos"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"total_pages"`
}

type DefaultAlumnoService struct {
	AlumnoRepo AlumnoRepository
	Validate   *validator.Validate
}

func NewAlumnoService(alumnoRepo AlumnoRepository, validate *validator.Validate) *DefaultAlumnoService {
	return &DefaultAlumnoService{AlumnoRepo: alumnoRepo, Validate: validate}
}

func (s *DefaultAlumnoService) GetAlumnos(q *repository.AlumnoQuery) (*AlumnoListResponse, apierror.ErrorResponse) {
	alumnos, total, err := s.AlumnoRepo.FindFiltered(q)
	if err != nil {
		log.Errorf("failed to fetch alumnos: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener alumnos")
	}

	response := make([]*AlumnoResponse, len(alumnos))
	for i, alumno := range alumnos {
		response[i] = toAlumnoResponse(alumno)
	}
	return &AlumnoListResponse{
		Alumnos:    response,
		Total:      total,
		TotalPages: totalPages(total, q.PerPage),
	}, nil
}

func (s *DefaultAlumnoService) GetAlumno(id string) (*AlumnoResponse, apierror.ErrorResponse) {
	alumno, err := s.AlumnoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch alumno %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al obtener alumno")
	}
	if alumno == nil {
		return nil, apierror.NotFoundError
	}
	return toAlumnoResponse(alumno), nil
}

func (s *DefaultAlumnoService) CreateAlumno(req *AlumnoRequest) (*AlumnoResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := utils.NowUTC()
	alumno := &entity.Alumno{
		Nombre:     req.Nombre,
		Apellido:   req.Apellido,
		Email:      req.Email,
		Telefono:   req.Telefono,
		Sede:       entity.Sede(req.Sede),
		Activo:     true,
		EstadoPago: entity.PagoAlDia,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.Activo != nil {
		alumno.Activo = *req.Activo
	}
	if req.AlertasActivas != nil {
		alumno.AlertasActivas = *req.AlertasActivas
	}
	if req.EstadoPago != "" {
		alumno.EstadoPago = entity.EstadoPago(req.EstadoPago)
	}

	if err := s.AlumnoRepo.Save(alumno); err != nil {
		log.Errorf("failed to create alumno: %v", err)
		return nil, apierror.NewSimple(500, "Error al crear alumno")
	}
	return toAlumnoResponse(alumno), nil
}

func (s *DefaultAlumnoService) UpdateAlumno(id string, req *AlumnoRequest) (*AlumnoResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	alumno, err := s.AlumnoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch alumno %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar alumno")
	}
	if alumno == nil {
		return nil, apierror.NotFoundError
	}

	alumno.Nombre = req.Nombre
	alumno.Apellido = req.Apellido
	alumno.Email = req.Email
	alumno.Telefono = req.Telefono
	if req.Sede != "" {
		alumno.Sede = entity.Sede(req.Sede)
	}
	if req.Activo != nil {
		alumno.Activo = *req.Activo
	}
	if req.AlertasActivas != nil {
		alumno.AlertasActivas = *req.AlertasActivas
	}
	if req.EstadoPago != "" {
		alumno.EstadoPago = entity.EstadoPago(req.EstadoPago)
	}
	alumno.UpdatedAt = utils.NowUTC()

	if err := s.AlumnoRepo.Save(alumno); err != nil {
		log.Errorf("failed to update alumno %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar alumno")
	}
	return toAlumnoResponse(alumno), nil
}

func (s *DefaultAlumnoService) DeleteAlumno(id string) apierror.ErrorResponse {
	alumno, err := s.AlumnoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch alumno %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar alumno")
	}
	if alumno == nil {
		return apierror.NotFoundError
	}

	if err := s.AlumnoRepo.Delete(alumno); err != nil {
		log.Errorf("failed to delete alumno %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar alumno")
	}
	return nil
}

func (s *DefaultAlumnoService) UpdateEstadoPago(id, estado string) apierror.ErrorResponse {
	switch entity.EstadoPago(estado) {
	case entity.PagoAlDia, entity.PagoPend, entity.PagoAtrasado:
	default:
		return apierror.NewInvalidParamTypeError("estado_pago", "al_dia|pendiente|atrasado")
	}

	alumno, err := s.AlumnoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch alumno %s: %v", id, err)
		return apierror.NewSimple(500, "Error al actualizar estado de pago")
	}
	if alumno == nil {
		return apierror.NotFoundError
	}

	alumno.EstadoPago = entity.EstadoPago(estado)
	alumno.UpdatedAt = utils.NowUTC()
	if err := s.AlumnoRepo.Save(alumno); err != nil {
		log.Errorf("failed to update estado de pago for alumno %s: %v", id, err)
		return apierror.NewSimple(500, "Error al actualizar estado de pago")
	}
	return nil
}

// RegistrarAsistencia bumps an alumno's attendance tracking fields: the
// streak grows by one when the new date is exactly the day after the last
// recorded attendance, otherwise it restarts at one.
func (s *DefaultAlumnoService) RegistrarAsistencia(id, fecha string) apierror.ErrorResponse {
	day, err := utils.ParseDate(fecha)
	if err != nil {
		return apierror.NewInvalidParamTypeError("fecha", "YYYY-MM-DD")
	}

	alumno, apierr := s.fetchAlumno(id, "Error al actualizar asistencia")
	if apierr != nil {
		return apierr
	}

	streak := 1
	if alumno.FechaUltimaAsistencia != "" {
		if last, err := utils.ParseDate(alumno.FechaUltimaAsistencia); err == nil {
			if day.Sub(last) == 24*time.Hour {
				streak = alumno.DiasConsecutivosAsistencia + 1
			} else if day.Equal(last) {
				streak = alumno.DiasConsecutivosAsistencia
			}
		}
	}

	alumno.FechaUltimaAsistencia = fecha
	alumno.DiasConsecutivosAsistencia = streak
	alumno.UpdatedAt = utils.NowUTC()

	if err := s.AlumnoRepo.Save(alumno); err != nil {
		log.Errorf("failed to update asistencia for alumno %s: %v", id, err)
		return apierror.NewSimple(500, "Error al actualizar asistencia")
	}
	return nil
}

func (s *DefaultAlumnoService) ResetRacha(id string) apierror.ErrorResponse {
	alumno, apierr := s.fetchAlumno(id, "Error al resetear asistencias")
	if apierr != nil {
		return apierr
	}

	alumno.DiasConsecutivosAsistencia = 0
	alumno.UpdatedAt = utils.NowUTC()
	if err := s.AlumnoRepo.Save(alumno); err != nil {
		log.Errorf("failed to reset streak for alumno %s: %v", id, err)
		return apierror.NewSimple(500, "Error al resetear asistencias")
	}
	return nil
}

func (s *DefaultAlumnoService) fetchAlumno(id, errMsg string) (*entity.Alumno, apierror.ErrorResponse) {
	alumno, err := s.AlumnoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch alumno %s: %v", id, err)
		return nil, apierror.NewSimple(500, errMsg)
	}
	if alumno == nil {
		return nil, apierror.NotFoundError
	}
	return alumno, nil
}

func totalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages == 0 {
		pages = 1
	}
	return pages
}

func toAlumnoResponse(alumno *entity.Alumno) *AlumnoResponse {
	return &AlumnoResponse{
		ID:                         alumno.ID,
		Nombre:                     alumno.Nombre,
		Apellido:                   alumno.Apellido,
		Email:                      alumno.Email,
		Telefono:                   alumno.Telefono,
		Sede:                       string(alumno.Sede),
		Activo:                     alumno.Activo,
		AlertasActivas:             alumno.AlertasActivas,
		FechaUltimaAsistencia:      alumno.FechaUltimaAsistencia,
		DiasConsecutivosAsistencia: alumno.DiasConsecutivosAsistencia,
		EstadoPago:                 string(alumno.EstadoPago),
		CreatedAt:                  utils.FormatEpoch(alumno.CreatedAt),
		UpdatedAt:                  utils.FormatEpoch(alumno.UpdatedAt),
	}
}
