package repository

import (
	"errors"

	"gymadmin/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CitaQuery mirrors the filters the listing endpoints accept. Zero values
// mean "no filter".
type CitaQuery struct {
	DateFrom string
	DateTo   string
	Status   entity.CitaStatus
	AlumnoID string
	Type     entity.CitaType
}

type DefaultCitaRepository struct {
	db *gorm.DB
}

func NewCitaRepository(db *gorm.DB) *DefaultCitaRepository {
	return &DefaultCitaRepository{db: db}
}

func (r *DefaultCitaRepository) FindByID(id string) (*entity.Cita, error) {
	var cita entity.Cita
	err := r.db.First(&cita, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cita, err
}

func (r *DefaultCitaRepository) FindFiltered(q *CitaQuery) ([]*entity.Cita, error) {
	var citas []*entity.Cita

	tx := r.db.Model(&entity.Cita{})
	if q != nil {
		if q.DateFrom != "" {
			tx = tx.Where("date >= ?", q.DateFrom)
		}
		if q.DateTo != "" {
			tx = tx.Where("date <= ?", q.DateTo)
		}
		if q.Status != "" {
			tx = tx.Where("status = ?", q.Status)
		}
		if q.AlumnoID != "" {
			tx = tx.Where("alumno_id = ?", q.AlumnoID)
		}
		if q.Type != "" {
			tx = tx.Where("type = ?", q.Type)
		}
	}

	err := tx.Order("date asc").Order("time asc").Find(&citas).Error
	return citas, err
}

// FindByDay returns the non-cancelled citas of one calendar day ordered by
// start time, optionally excluding one id (edit flows check against
// everything but the cita being edited).
func (r *DefaultCitaRepository) FindByDay(date, excludeID string) ([]*entity.Cita, error) {
	return findByDay(r.db, date, excludeID)
}

func findByDay(tx *gorm.DB, date, excludeID string) ([]*entity.Cita, error) {
	var citas []*entity.Cita

	q := tx.Where("date = ?", date).
		Where("status <> ?", entity.CitaCancelled)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	err := q.Order("time asc").Find(&citas).Error
	return citas, err
}

// CreateChecked runs the availability decision and the insert inside one
// transaction, so a concurrent create cannot slip a conflicting cita in
// between the read and the write.
func (r *DefaultCitaRepository) CreateChecked(cita *entity.Cita, check func(existing []*entity.Cita) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findByDay(tx, cita.Date, "")
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}

		if cita.ID == "" {
			cita.ID = uuid.NewString()
		}
		return tx.Create(cita).Error
	})
}

// UpdateChecked is CreateChecked for edits: the cita's own row is excluded
// from the conflict set.
func (r *DefaultCitaRepository) UpdateChecked(cita *entity.Cita, check func(existing []*entity.Cita) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findByDay(tx, cita.Date, cita.ID)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}
		return tx.Save(cita).Error
	})
}

// CreateBatch bulk-inserts a recurring series. GORM wraps the multi-row
// insert in a transaction, so the batch is all-or-nothing.
func (r *DefaultCitaRepository) CreateBatch(citas []*entity.Cita) error {
	if len(citas) == 0 {
		return nil
	}
	for _, cita := range citas {
		if cita.ID == "" {
			cita.ID = uuid.NewString()
		}
	}
	return r.db.Create(&citas).Error
}

func (r *DefaultCitaRepository) Delete(cita *entity.Cita) error {
	return r.db.Delete(cita).Error
}

func (r *DefaultCitaRepository) CountBetween(from, to string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Cita{}).
		Where("date >= ?", from).
		Where("date <= ?", to).
		Count(&count).Error
	return count, err
}

func (r *DefaultCitaRepository) CountOnDate(date string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Cita{}).
		Where("date = ?", date).
		Count(&count).Error
	return count, err
}

// CountPendingFrom counts upcoming citas still awaiting completion.
func (r *DefaultCitaRepository) CountPendingFrom(date string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Cita{}).
		Where("status IN ?", []entity.CitaStatus{entity.CitaScheduled, entity.CitaConfirmed}).
		Where("date >= ?", date).
		Count(&count).Error
	return count, err
}
