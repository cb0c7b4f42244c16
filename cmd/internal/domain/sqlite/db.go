package sqlite

import (
	"time"

	"gymadmin/cmd/internal/domain/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Init(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&entity.Usuario{},
		&entity.Alumno{},
		&entity.Cita{},
		&entity.Asistencia{},
		&entity.Pago{},
		&entity.Nota{},
		&entity.HistorialPrecio{},
		&entity.Turno{},
	)
	if err != nil {
		return nil, err
	}

	// A single connection keeps SQLite happy and serializes the
	// availability-check-then-insert transactions.
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
