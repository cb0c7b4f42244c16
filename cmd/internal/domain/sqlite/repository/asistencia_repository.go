package repository

import (
	"errors"

	"gymadmin/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AsistenciaQuery struct {
	Page      int
	PerPage   int
	OrderBy   string
	OrderDesc bool
	AlumnoID  string
	Estado    entity.EstadoAsistencia
	Sede      entity.Sede
	Fecha     string
}

type DefaultAsistenciaRepository struct {
	db *gorm.DB
}

func NewAsistenciaRepository(db *gorm.DB) *DefaultAsistenciaRepository {
	return &DefaultAsistenciaRepository{db: db}
}

var asistenciaOrderColumns = map[string]string{
	"fecha":      "fecha",
	"estado":     "estado",
	"sede":       "sede",
	"created_at": "created_at",
}

func (r *DefaultAsistenciaRepository) FindByID(id string) (*entity.Asistencia, error) {
	var asistencia entity.Asistencia
	err := r.db.Preload("Alumno").First(&asistencia, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &asistencia, err
}

func (r *DefaultAsistenciaRepository) FindFiltered(q *AsistenciaQuery) ([]*entity.Asistencia, int64, error) {
	var asistencias []*entity.Asistencia
	var count int64

	tx := r.db.Model(&entity.Asistencia{})
	if q.AlumnoID != "" {
		tx = tx.Where("alumno_id = ?", q.AlumnoID)
	}
	if q.Estado != "" {
		tx = tx.Where("estado = ?", q.Estado)
	}
	if q.Sede != "" {
		tx = tx.Where("sede = ?", q.Sede)
	}
	if q.Fecha != "" {
		tx = tx.Where("fecha = ?", q.Fecha)
	}

	if err := tx.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if col, ok := asistenciaOrderColumns[q.OrderBy]; ok {
		dir := "asc"
		if q.OrderDesc {
			dir = "desc"
		}
		tx = tx.Order(col + " " + dir)
	}

	if q.Page > 0 && q.PerPage > 0 {
		tx = tx.Offset((q.Page - 1) * q.PerPage).Limit(q.PerPage)
	}

	err := tx.Preload("Alumno").Find(&asistencias).Error
	return asistencias, count, err
}

// FindByAlumnoBetween feeds the attendance statistics; the date bounds are
// optional.
func (r *DefaultAsistenciaRepository) FindByAlumnoBetween(alumnoID, desde, hasta string) ([]*entity.Asistencia, error) {
	var asistencias []*entity.Asistencia

	tx := r.db.Where("alumno_id = ?", alumnoID)
	if desde != "" {
		tx = tx.Where("fecha >= ?", desde)
	}
	if hasta != "" {
		tx = tx.Where("fecha <= ?", hasta)
	}

	err := tx.Order("fecha asc").Find(&asistencias).Error
	return asistencias, err
}

func (r *DefaultAsistenciaRepository) FindBetween(desde, hasta string) ([]*entity.Asistencia, error) {
	var asistencias []*entity.Asistencia
	err := r.db.
		Where("fecha >= ?", desde).
		Where("fecha <= ?", hasta).
		Find(&asistencias).Error
	return asistencias, err
}

func (r *DefaultAsistenciaRepository) Save(asistencia *entity.Asistencia) error {
	if asistencia.ID == "" {
		asistencia.ID = uuid.NewString()
	}
	return r.db.Save(asistencia).Error
}

func (r *DefaultAsistenciaRepository) Delete(asistencia *entity.Asistencia) error {
	return r.db.Delete(asistencia).Error
}
