package repository

import (
	"errors"

	"gymadmin/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultUsuarioRepository struct {
	db *gorm.DB
}

func NewUsuarioRepository(db *gorm.DB) *DefaultUsuarioRepository {
	return &DefaultUsuarioRepository{db: db}
}

func (r *DefaultUsuarioRepository) FindByID(id string) (*entity.Usuario, error) {
	var usuario entity.Usuario
	err := r.db.First(&usuario, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &usuario, err
}

func (r *DefaultUsuarioRepository) FindByEmail(email string) (*entity.Usuario, error) {
	var usuario entity.Usuario
	err := r.db.First(&usuario, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &usuario, err
}

func (r *DefaultUsuarioRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Usuario{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *DefaultUsuarioRepository) Save(usuario *entity.Usuario) error {
	if usuario.ID == "" {
		usuario.ID = uuid.NewString()
	}
	return r.db.Save(usuario).Error
}
