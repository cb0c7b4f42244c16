package repository

import (
	"errors"

	"gymadmin/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrecioQuery struct {
	Servicio     string
	Fecha        string // entries in force on this date
	SoloActivos  bool
	TipoServicio entity.TipoServicio
	Moneda       entity.Moneda
}

type DefaultPrecioRepository struct {
	db *gorm.DB
}

func NewPrecioRepository(db *gorm.DB) *DefaultPrecioRepository {
	return &DefaultPrecioRepository{db: db}
}

func (r *DefaultPrecioRepository) FindByID(id string) (*entity.HistorialPrecio, error) {
	var precio entity.HistorialPrecio
	err := r.db.First(&precio, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &precio, err
}

func (r *DefaultPrecioRepository) FindFiltered(q *PrecioQuery) ([]*entity.HistorialPrecio, error) {
	var precios []*entity.HistorialPrecio

	tx := r.db.Model(&entity.HistorialPrecio{})
	if q.Servicio != "" {
		tx = tx.Where("servicio = ?", q.Servicio)
	}
	if q.Fecha != "" {
		tx = tx.Where("fecha_inicio <= ?", q.Fecha).
			Where("fecha_fin = '' OR fecha_fin > ?", q.Fecha)
	}
	if q.SoloActivos {
		tx = tx.Where("activo = ?", true)
	}
	if q.TipoServicio != "" {
		tx = tx.Where("tipo_servicio = ?", q.TipoServicio)
	}
	if q.Moneda != "" {
		tx = tx.Where("moneda = ?", q.Moneda)
	}

	err := tx.Order("fecha_inicio desc").Find(&precios).Error
	return precios, err
}

// FindVigente returns the price of a service in force on the given date,
// or nil when none applies.
func (r *DefaultPrecioRepository) FindVigente(servicio, fecha string) (*entity.HistorialPrecio, error) {
	var precio entity.HistorialPrecio
	err := r.db.
		Where("servicio = ?", servicio).
		Where("activo = ?", true).
		Where("fecha_inicio <= ?", fecha).
		Where("fecha_fin = '' OR fecha_fin > ?", fecha).
		Order("fecha_inicio desc").
		First(&precio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &precio, err
}

// FindBetween returns a service's entries whose fecha_inicio falls in the
// range, oldest first, for trend analysis.
func (r *DefaultPrecioRepository) FindBetween(servicio, desde, hasta string, tipo entity.TipoServicio, moneda entity.Moneda) ([]*entity.HistorialPrecio, error) {
	var precios []*entity.HistorialPrecio

	tx := r.db.
		Where("servicio = ?", servicio).
		Where("fecha_inicio >= ?", desde).
		Where("fecha_inicio <= ?", hasta)
	if tipo != "" {
		tx = tx.Where("tipo_servicio = ?", tipo)
	}
	if moneda != "" {
		tx = tx.Where("moneda = ?", moneda)
	}

	err := tx.Order("fecha_inicio asc").Find(&precios).Error
	return precios, err
}

func (r *DefaultPrecioRepository) FindActivos() ([]*entity.HistorialPrecio, error) {
	var precios []*entity.HistorialPrecio
	err := r.db.Where("activo = ?", true).Find(&precios).Error
	return precios, err
}

func (r *DefaultPrecioRepository) Save(precio *entity.HistorialPrecio) error {
	if precio.ID == "" {
		precio.ID = uuid.NewString()
	}
	return r.db.Save(precio).Error
}

func (r *DefaultPrecioRepository) Delete(precio *entity.HistorialPrecio) error {
	return r.db.Delete(precio).Error
}
