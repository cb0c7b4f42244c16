package repository

import (
	"errors"

	"gymadmin/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlumnoQuery carries the listing filters and pagination. Page/PerPage of
// zero disable pagination.
type AlumnoQuery struct {
	Page      int
	PerPage   int
	OrderBy   string
	OrderDesc bool
	Sede      entity.Sede
	Activo    *bool
	EstadoPago entity.EstadoPago
}

type DefaultAlumnoRepository struct {
	db *gorm.DB
}

func NewAlumnoRepository(db *gorm.DB) *DefaultAlumnoRepository {
	return &DefaultAlumnoRepository{db: db}
}

var alumnoOrderColumns = map[string]string{
	"nombre":     "nombre",
	"apellido":   "apellido",
	"sede":       "sede",
	"estado_pago": "estado_pago",
	"created_at": "created_at",
}

func (r *DefaultAlumnoRepository) FindByID(id string) (*entity.Alumno, error) {
	var alumno entity.Alumno
	err := r.db.First(&alumno, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &alumno, err
}

func (r *DefaultAlumnoRepository) FindAll() ([]*entity.Alumno, error) {
	var alumnos []*entity.Alumno
	err := r.db.Find(&alumnos).Error
	return alumnos, err
}

// FindFiltered returns one page of alumnos plus the unpaginated row count.
func (r *DefaultAlumnoRepository) FindFiltered(q *AlumnoQuery) ([]*entity.Alumno, int64, error) {
	var alumnos []*entity.Alumno
	var count int64

	tx := r.db.Model(&entity.Alumno{})
	if q.Sede != "" {
		tx = tx.Where("sede = ?", q.Sede)
	}
	if q.Activo != nil {
		tx = tx.Where("activo = ?", *q.Activo)
	}
	if q.EstadoPago != "" {
		tx = tx.Where("estado_pago = ?", q.EstadoPago)
	}

	if err := tx.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if col, ok := alumnoOrderColumns[q.OrderBy]; ok {
		dir := "asc"
		if q.OrderDesc {
			dir = "desc"
		}
		tx = tx.Order(col + " " + dir)
	}

	if q.Page > 0 && q.PerPage > 0 {
		tx = tx.Offset((q.Page - 1) * q.PerPage).Limit(q.PerPage)
	}

	err := tx.Find(&alumnos).Error
	return alumnos, count, err
}

func (r *DefaultAlumnoRepository) Save(alumno *entity.Alumno) error {
	if alumno.ID == "" {
		alumno.ID = uuid.NewString()
	}
	return r.db.Save(alumno).Error
}

func (r *DefaultAlumnoRepository) Delete(alumno *entity.Alumno) error {
	return r.db.Delete(alumno).Error
}
