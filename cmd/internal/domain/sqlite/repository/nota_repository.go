package repository

import (
	"errors"

	"gymadmin/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotaQuery struct {
	Page             int
	PerPage          int
	OrderBy          string
	OrderDesc        bool
	AlumnoID         string
	Tipo             entity.TipoNota
	Categoria        string
	VisibleEnReporte *bool
	CalificacionMin  *int
	CalificacionMax  *int
	FechaDesde       string
	FechaHasta       string
}

type DefaultNotaRepository struct {
	db *gorm.DB
}

func NewNotaRepository(db *gorm.DB) *DefaultNotaRepository {
	return &DefaultNotaRepository{db: db}
}

var notaOrderColumns = map[string]string{
	"fecha":        "fecha",
	"tipo":         "tipo",
	"calificacion": "calificacion",
	"created_at":   "created_at",
}

func (r *DefaultNotaRepository) FindByID(id string) (*entity.Nota, error) {
	var nota entity.Nota
	err := r.db.First(&nota, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &nota, err
}

func (r *DefaultNotaRepository) FindFiltered(q *NotaQuery) ([]*entity.Nota, int64, error) {
	var notas []*entity.Nota
	var count int64

	tx := r.db.Model(&entity.Nota{})
	if q.AlumnoID != "" {
		tx = tx.Where("alumno_id = ?", q.AlumnoID)
	}
	if q.Tipo != "" {
		tx = tx.Where("tipo = ?", q.Tipo)
	}
	if q.Categoria != "" {
		tx = tx.Where("categoria = ?", q.Categoria)
	}
	if q.VisibleEnReporte != nil {
		tx = tx.Where("visible_en_reporte = ?", *q.VisibleEnReporte)
	}
	if q.CalificacionMin != nil {
		tx = tx.Where("calificacion >= ?", *q.CalificacionMin)
	}
	if q.CalificacionMax != nil {
		tx = tx.Where("calificacion <= ?", *q.CalificacionMax)
	}
	if q.FechaDesde != "" {
		tx = tx.Where("fecha >= ?", q.FechaDesde)
	}
	if q.FechaHasta != "" {
		tx = tx.Where("fecha <= ?", q.FechaHasta)
	}

	if err := tx.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if col, ok := notaOrderColumns[q.OrderBy]; ok {
		dir := "asc"
		if q.OrderDesc {
			dir = "desc"
		}
		tx = tx.Order(col + " " + dir)
	}

	if q.Page > 0 && q.PerPage > 0 {
		tx = tx.Offset((q.Page - 1) * q.PerPage).Limit(q.PerPage)
	}

	err := tx.Find(&notas).Error
	return notas, count, err
}

func (r *DefaultNotaRepository) FindByAlumnoBetween(alumnoID, desde, hasta string) ([]*entity.Nota, error) {
	var notas []*entity.Nota

	tx := r.db.Where("alumno_id = ?", alumnoID)
	if desde != "" {
		tx = tx.Where("fecha >= ?", desde)
	}
	if hasta != "" {
		tx = tx.Where("fecha <= ?", hasta)
	}

	err := tx.Order("fecha asc").Find(&notas).Error
	return notas, err
}

func (r *DefaultNotaRepository) Save(nota *entity.Nota) error {
	if nota.ID == "" {
		nota.ID = uuid.NewString()
	}
	return r.db.Save(nota).Error
}

func (r *DefaultNotaRepository) Delete(nota *entity.Nota) error {
	return r.db.Delete(nota).Error
}
