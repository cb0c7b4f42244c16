package repository

import (
	"errors"

	"gymadmin/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagoQuery struct {
	AlumnoID   string
	Estado     entity.EstadoDePago
	MetodoPago entity.MetodoPago
	FechaDesde string
	FechaHasta string
}

type DefaultPagoRepository struct {
	db *gorm.DB
}

func NewPagoRepository(db *gorm.DB) *DefaultPagoRepository {
	return &DefaultPagoRepository{db: db}
}

var pagoOrderColumns = map[string]string{
	"fecha_pago": "fecha_pago",
	"monto":      "monto",
	"created_at": "created_at",
}

func (r *DefaultPagoRepository) FindByID(id string) (*entity.Pago, error) {
	var pago entity.Pago
	err := r.db.First(&pago, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &pago, err
}

// FindPage lists payments newest-first by default.
func (r *DefaultPagoRepository) FindPage(page, pageSize int, orderBy string, desc bool) ([]*entity.Pago, int64, error) {
	var pagos []*entity.Pago
	var count int64

	if err := r.db.Model(&entity.Pago{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	col, ok := pagoOrderColumns[orderBy]
	if !ok {
		col = "fecha_pago"
	}
	dir := "asc"
	if desc {
		dir = "desc"
	}

	err := r.db.Order(col + " " + dir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&pagos).Error
	return pagos, count, err
}

func (r *DefaultPagoRepository) FindFiltered(q *PagoQuery) ([]*entity.Pago, error) {
	var pagos []*entity.Pago

	tx := r.db.Model(&entity.Pago{})
	if q.AlumnoID != "" {
		tx = tx.Where("alumno_id = ?", q.AlumnoID)
	}
	if q.Estado != "" {
		tx = tx.Where("estado = ?", q.Estado)
	}
	if q.MetodoPago != "" {
		tx = tx.Where("metodo_pago = ?", q.MetodoPago)
	}
	if q.FechaDesde != "" {
		tx = tx.Where("fecha_pago >= ?", q.FechaDesde)
	}
	if q.FechaHasta != "" {
		tx = tx.Where("fecha_pago <= ?", q.FechaHasta)
	}

	err := tx.Order("fecha_pago desc").Find(&pagos).Error
	return pagos, err
}

func (r *DefaultPagoRepository) Save(pago *entity.Pago) error {
	if pago.ID == "" {
		pago.ID = uuid.NewString()
	}
	return r.db.Save(pago).Error
}

// SaveBatch inserts a bulk payment registration in one call.
func (r *DefaultPagoRepository) SaveBatch(pagos []*entity.Pago) error {
	if len(pagos) == 0 {
		return nil
	}
	for _, pago := range pagos {
		if pago.ID == "" {
			pago.ID = uuid.NewString()
		}
	}
	return r.db.Create(&pagos).Error
}

func (r *DefaultPagoRepository) Delete(pago *entity.Pago) error {
	return r.db.Delete(pago).Error
}
