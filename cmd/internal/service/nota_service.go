package service

import (
	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type NotaRepository interface {
	FindByID(id string) (*entity.Nota, error)
	FindFiltered(q *repository.NotaQuery) ([]*entity.Nota, int64, error)
	FindByAlumnoBetween(alumnoID, desde, hasta string) ([]*entity.Nota, error)
	Save(nota *entity.Nota) error
	Delete(nota *entity.Nota) error
}

type NotaRequest struct {
	AlumnoID         string               `json:"alumno_id" validate:"required"`
	Fecha            string               `json:"fecha" validate:"required,dateonly"`
	Contenido        string               `json:"contenido" validate:"required"`
	Tipo             string               `json:"tipo" validate:"omitempty,oneof=Ausencia Lesión Vacaciones General"`
	VisibleEnReporte bool                 `json:"visible_en_reporte"`
	Categoria        string               `json:"categoria" validate:"omitempty,max=60"`
	Calificacion     *int                 `json:"calificacion" validate:"omitempty,min=1,max=10"`
	Objetivos        []string             `json:"objetivos"`
	Seguimiento      []entity.Seguimiento `json:"seguimiento"`
	Adjuntos         []string             `json:"adjuntos"`
}

type NotaResponse struct {
	ID               string               `json:"id"`
	AlumnoID         string               `json:"alumno_id"`
	Fecha            string               `json:"fecha"`
	Contenido        string               `json:"contenido"`
	Tipo             string               `json:"tipo"`
	VisibleEnReporte bool                 `json:"visible_en_reporte"`
	Categoria        string               `json:"categoria,omitempty"`
	Calificacion     *int                 `json:"calificacion,omitempty"`
	Objetivos        []string             `json:"objetivos,omitempty"`
	Seguimiento      []entity.Seguimiento `json:"seguimiento,omitempty"`
	Adjuntos         []string             `json:"adjuntos,omitempty"`
	CreatedAt        string               `json:"created_at"`
	UpdatedAt        string               `json:"updated_at"`
}

type NotaListResponse struct {
	Notas      []*NotaResponse `json:"notas"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"total_pages"`
}

type NotaStatsResponse struct {
	Total                int            `json:"total"`
	PorTipo              map[string]int `json:"por_tipo"`
	PorCategoria         map[string]int `json:"por_categoria"`
	PromedioCalificacion float64        `json:"promedio_calificacion"`
	ObjetivosCumplidos   int            `json:"objetivos_cumplidos"`
	ConAdjuntos          int            `json:"con_adjuntos"`
	VisiblesEnReporte    int            `json:"visibles_en_reporte"`
}

type DefaultNotaService struct {
	NotaRepo NotaRepository
	Validate *validator.Validate
}

func NewNotaService(notaRepo NotaRepository, validate *validator.Validate) *DefaultNotaService {
	return &DefaultNotaService{NotaRepo: notaRepo, Validate: validate}
}

func (s *DefaultNotaService) GetNotas(q *repository.NotaQuery) (*NotaListResponse, apierror.ErrorResponse) {
	notas, total, err := s.NotaRepo.FindFiltered(q)
	if err != nil {
		log.Errorf("failed to fetch notas: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener notas")
	}

	response := make([]*NotaResponse, len(notas))
	for i, nota := range notas {
		response[i] = toNotaResponse(nota)
	}
	return &NotaListResponse{
		Notas:      response,
		Total:      total,
		TotalPages: totalPages(total, q.PerPage),
	}, nil
}

func (s *DefaultNotaService) GetNota(id string) (*NotaResponse, apierror.ErrorResponse) {
	nota, err := s.NotaRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch nota %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al obtener nota")
	}
	if nota == nil {
		return nil, apierror.NotFoundError
	}
	return toNotaResponse(nota), nil
}

func (s *DefaultNotaService) CreateNota(req *NotaRequest) (*NotaResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := utils.NowUTC()
	nota := &entity.Nota{
		AlumnoID:         req.AlumnoID,
		Fecha:            req.Fecha,
		Contenido:        req.Contenido,
		Tipo:             entity.NotaGeneral,
		VisibleEnReporte: req.VisibleEnReporte,
		Categoria:        req.Categoria,
		Calificacion:     req.Calificacion,
		Objetivos:        req.Objetivos,
		Seguimiento:      req.Seguimiento,
		Adjuntos:         req.Adjuntos,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Tipo != "" {
		nota.Tipo = entity.TipoNota(req.Tipo)
	}

	if err := s.NotaRepo.Save(nota); err != nil {
		log.Errorf("failed to create nota: %v", err)
		return nil, apierror.NewSimple(500, "Error al crear nota")
	}
	return toNotaResponse(nota), nil
}

func (s *DefaultNotaService) UpdateNota(id string, req *NotaRequest) (*NotaResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	nota, err := s.NotaRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch nota %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar nota")
	}
	if nota == nil {
		return nil, apierror.NotFoundError
	}

	nota.AlumnoID = req.AlumnoID
	nota.Fecha = req.Fecha
	nota.Contenido = req.Contenido
	if req.Tipo != "" {
		nota.Tipo = entity.TipoNota(req.Tipo)
	}
	nota.VisibleEnReporte = req.VisibleEnReporte
	nota.Categoria = req.Categoria
	nota.Calificacion = req.Calificacion
	nota.Objetivos = req.Objetivos
	nota.Seguimiento = req.Seguimiento
	nota.Adjuntos = req.Adjuntos
	nota.UpdatedAt = utils.NowUTC()

	if err := s.NotaRepo.Save(nota); err != nil {
		log.Errorf("failed to update nota %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar nota")
	}
	return toNotaResponse(nota), nil
}

func (s *DefaultNotaService) DeleteNota(id string) apierror.ErrorResponse {
	nota, err := s.NotaRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch nota %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar nota")
	}
	if nota == nil {
		return apierror.NotFoundError
	}

	if err := s.NotaRepo.Delete(nota); err != nil {
		log.Errorf("failed to delete nota %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar nota")
	}
	return nil
}

func (s *DefaultNotaService) GetNotasPorPeriodo(alumnoID, desde, hasta string) ([]*NotaResponse, apierror.ErrorResponse) {
	notas, err := s.NotaRepo.FindByAlumnoBetween(alumnoID, desde, hasta)
	if err != nil {
		log.Errorf("failed to fetch notas for alumno %s: %v", alumnoID, err)
		return nil, apierror.NewSimple(500, "Error al obtener notas por período")
	}

	response := make([]*NotaResponse, len(notas))
	for i, nota := range notas {
		response[i] = toNotaResponse(nota)
	}
	return response, nil
}

func (s *DefaultNotaService) GetEstadisticas(alumnoID, desde, hasta string) (*NotaStatsResponse, apierror.ErrorResponse) {
	notas, err := s.NotaRepo.FindByAlumnoBetween(alumnoID, desde, hasta)
	if err != nil {
		log.Errorf("failed to fetch notas for alumno %s: %v", alumnoID, err)
		return nil, apierror.NewSimple(500, "Error al obtener estadísticas de notas")
	}
	return notaStats(notas), nil
}

func notaStats(notas []*entity.Nota) *NotaStatsResponse {
	stats := &NotaStatsResponse{
		Total:        len(notas),
		PorTipo:      map[string]int{},
		PorCategoria: map[string]int{},
	}

	sum, count := 0, 0
	for _, nota := range notas {
		stats.PorTipo[string(nota.Tipo)]++
		if nota.Categoria != "" {
			stats.PorCategoria[nota.Categoria]++
		}
		if nota.Calificacion != nil {
			sum += *nota.Calificacion
			count++
		}
		for _, seg := range nota.Seguimiento {
			if seg.Estado == "Completado" {
				stats.ObjetivosCumplidos++
			}
		}
		if len(nota.Adjuntos) > 0 {
			stats.ConAdjuntos++
		}
		if nota.VisibleEnReporte {
			stats.VisiblesEnReporte++
		}
	}

	if count > 0 {
		stats.PromedioCalificacion = float64(sum) / float64(count)
	}
	return stats
}

func toNotaResponse(nota *entity.Nota) *NotaResponse {
	return &NotaResponse{
		ID:               nota.ID,
		AlumnoID:         nota.AlumnoID,
		Fecha:            nota.Fecha,
		Contenido:        nota.Contenido,
		Tipo:             string(nota.Tipo),
		VisibleEnReporte: nota.VisibleEnReporte,
		Categoria:        nota.Categoria,
		Calificacion:     nota.Calificacion,
		Objetivos:        nota.Objetivos,
		Seguimiento:      nota.Seguimiento,
		Adjuntos:         nota.Adjuntos,
		CreatedAt:        utils.FormatEpoch(nota.CreatedAt),
		UpdatedAt:        utils.FormatEpoch(nota.UpdatedAt),
	}
}
