package repository

import (
	"errors"

	"gymadmin/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultTurnoRepository struct {
	db *gorm.DB
}

func NewTurnoRepository(db *gorm.DB) *DefaultTurnoRepository {
	return &DefaultTurnoRepository{db: db}
}

func (r *DefaultTurnoRepository) FindByID(id string) (*entity.Turno, error) {
	var turno entity.Turno
	err := r.db.First(&turno, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &turno, err
}

func (r *DefaultTurnoRepository) FindAll() ([]*entity.Turno, error) {
	var turnos []*entity.Turno
	err := r.db.Order("start_time asc").Find(&turnos).Error
	return turnos, err
}

// FindActive returns active turnos, optionally excluding one id so an
// update can be checked against every other shift.
func (r *DefaultTurnoRepository) FindActive(excludeID string) ([]*entity.Turno, error) {
	var turnos []*entity.Turno

	tx := r.db.Where("is_active = ?", true)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}

	err := tx.Order("start_time asc").Find(&turnos).Error
	return turnos, err
}

func (r *DefaultTurnoRepository) Save(turno *entity.Turno) error {
	if turno.ID == "" {
		turno.ID = uuid.NewString()
	}
	return r.db.Save(turno).Error
}

func (r *DefaultTurnoRepository) Delete(turno *entity.Turno) error {
	return r.db.Delete(turno).Error
}
