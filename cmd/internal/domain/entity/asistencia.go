package entity

type EstadoAsistencia string

const (
	AsistenciaPresente EstadoAsistencia = "presente"
	AsistenciaAusente  EstadoAsistencia = "ausente"
)

type Asistencia struct {
	ID        string           `gorm:"primaryKey"`
	AlumnoID  string           `gorm:"not null;index"` // References: alumnos(id)
	Fecha     string           `gorm:"not null;index"`
	Estado    EstadoAsistencia `gorm:"not null"`
	Sede      Sede             `gorm:"not null"`
	CreatedAt int64            `gorm:"not null"`
	UpdatedAt int64            `gorm:"not null"`

	// Relations
	Alumno *Alumno `gorm:"foreignKey:AlumnoID;references:ID"`
}
