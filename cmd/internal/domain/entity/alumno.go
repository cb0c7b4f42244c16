package entity

type Sede string

const (
	SedeArenales Sede = "Plaza Arenales"
	SedeTeran    Sede = "Plaza Terán"
)

type EstadoPago string

const (
	PagoAlDia    EstadoPago = "al_dia"
	PagoPend     EstadoPago = "pendiente"
	PagoAtrasado EstadoPago = "atrasado"
)

type Alumno struct {
	ID                         string `gorm:"primaryKey"`
	Nombre                     string `gorm:"not null"`
	Apellido                   string `gorm:"not null"`
	Email                      string
	Telefono                   string
	Sede                       Sede       `gorm:"index"`
	Activo                     bool       `gorm:"not null;default:true"`
	AlertasActivas             bool       `gorm:"not null"`
	FechaUltimaAsistencia      string     // "YYYY-MM-DD", empty until first attendance
	DiasConsecutivosAsistencia int        `gorm:"not null"`
	EstadoPago                 EstadoPago `gorm:"not null;default:al_dia;index"`
	CreatedAt                  int64      `gorm:"not null"`
	UpdatedAt                  int64      `gorm:"not null"`
}
