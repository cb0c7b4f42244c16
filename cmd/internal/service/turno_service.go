package service

import (
	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type TurnoRepository interface {
	FindByID(id string) (*entity.Turno, error)
	FindAll() ([]*entity.Turno, error)
	FindActive(excludeID string) ([]*entity.Turno, error)
	Save(turno *entity.Turno) error
	Delete(turno *entity.Turno) error
}

type TurnoRequest struct {
	Name      string `json:"name" validate:"required,max=60"`
	StartTime string `json:"start_time" validate:"required,clocktime"`
	EndTime   string `json:"end_time" validate:"required,clocktime"`
	IsActive  *bool  `json:"is_active"`
}

type TurnoResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type DefaultTurnoService struct {
	TurnoRepo TurnoRepository
	Validate  *validator.Validate
}

func NewTurnoService(turnoRepo TurnoRepository, validate *validator.Validate) *DefaultTurnoService {
	return &DefaultTurnoService{TurnoRepo: turnoRepo, Validate: validate}
}

func (s *DefaultTurnoService) GetTurnos() ([]*TurnoResponse, apierror.ErrorResponse) {
	turnos, err := s.TurnoRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch turnos: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener los turnos")
	}

	response := make([]*TurnoResponse, len(turnos))
	for i, turno := range turnos {
		response[i] = toTurnoResponse(turno)
	}
	return response, nil
}

func (s *DefaultTurnoService) GetTurno(id string) (*TurnoResponse, apierror.ErrorResponse) {
	turno, err := s.TurnoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch turno %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al obtener el turno")
	}
	if turno == nil {
		return nil, apierror.NotFoundError
	}
	return toTurnoResponse(turno), nil
}

func (s *DefaultTurnoService) CreateTurno(req *TurnoRequest) (*TurnoResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	if active {
		if apierr := s.checkTurnoOverlap(req, ""); apierr != nil {
			return nil, apierr
		}
	}

	now := utils.NowUTC()
	turno := &entity.Turno{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.TurnoRepo.Save(turno); err != nil {
		log.Errorf("failed to create turno: %v", err)
		return nil, apierror.NewSimple(500, "Error al crear el turno")
	}
	return toTurnoResponse(turno), nil
}

func (s *DefaultTurnoService) UpdateTurno(id string, req *TurnoRequest) (*TurnoResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	turno, err := s.TurnoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch turno %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar el turno")
	}
	if turno == nil {
		return nil, apierror.NotFoundError
	}

	active := turno.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}

	if active {
		if apierr := s.checkTurnoOverlap(req, id); apierr != nil {
			return nil, apierr
		}
	}

	turno.Name = req.Name
	turno.StartTime = req.StartTime
	turno.EndTime = req.EndTime
	turno.IsActive = active
	turno.UpdatedAt = utils.NowUTC()

	if err := s.TurnoRepo.Save(turno); err != nil {
		log.Errorf("failed to update turno %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar el turno")
	}
	return toTurnoResponse(turno), nil
}

func (s *DefaultTurnoService) DeleteTurno(id string) apierror.ErrorResponse {
	turno, err := s.TurnoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch turno %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar el turno")
	}
	if turno == nil {
		return apierror.NotFoundError
	}

	if err := s.TurnoRepo.Delete(turno); err != nil {
		log.Errorf("failed to delete turno %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar el turno")
	}
	return nil
}

// checkTurnoOverlap rejects the request when its range crosses any other
// active turno.
func (s *DefaultTurnoService) checkTurnoOverlap(req *TurnoRequest, excludeID string) apierror.ErrorResponse {
	start, err := utils.ParseClock(req.StartTime)
	if err != nil {
		return apierror.NewSimple(400, "Hora de inicio inválida")
	}
	end, err := utils.ParseClock(req.EndTime)
	if err != nil {
		return apierror.NewSimple(400, "Hora de fin inválida")
	}
	if end <= start {
		return apierror.NewSimple(400, "La hora de fin debe ser posterior a la de inicio")
	}

	activos, err := s.TurnoRepo.FindActive(excludeID)
	if err != nil {
		log.Errorf("failed to fetch active turnos: %v", err)
		return apierror.NewSimple(500, "Error al validar el turno")
	}

	for _, otro := range activos {
		otroStart, err := utils.ParseClock(otro.StartTime)
		if err != nil {
			continue
		}
		otroEnd, err := utils.ParseClock(otro.EndTime)
		if err != nil {
			continue
		}
		if timesOverlap(start, end, otroStart, otroEnd) {
			return apierror.TurnoOverlapError
		}
	}
	return nil
}

func toTurnoResponse(turno *entity.Turno) *TurnoResponse {
	return &TurnoResponse{
		ID:        turno.ID,
		Name:      turno.Name,
		StartTime: turno.StartTime,
		EndTime:   turno.EndTime,
		IsActive:  turno.IsActive,
		CreatedAt: utils.FormatEpoch(turno.CreatedAt),
		UpdatedAt: utils.FormatEpoch(turno.UpdatedAt),
	}
}
