package entity

type TipoNota string

const (
	NotaAusencia   TipoNota = "Ausencia"
	NotaLesion     TipoNota = "Lesión"
	NotaVacaciones TipoNota = "Vacaciones"
	NotaGeneral    TipoNota = "General"
)

// Seguimiento is one follow-up item attached to a nota.
type Seguimiento struct {
	Fecha  string `json:"fecha"`
	Estado string `json:"estado"` // "Pendiente" | "En progreso" | "Completado"
	Detalle string `json:"detalle,omitempty"`
}

type Nota struct {
	ID               string   `gorm:"primaryKey"`
	AlumnoID         string   `gorm:"not null;index"` // References: alumnos(id)
	Fecha            string   `gorm:"not null;index"`
	Contenido        string   `gorm:"not null"`
	Tipo             TipoNota `gorm:"not null;default:General"`
	VisibleEnReporte bool     `gorm:"not null"`
	Categoria        string
	Calificacion     *int          // 1-10, optional
	Objetivos        []string      `gorm:"serializer:json"`
	Seguimiento      []Seguimiento `gorm:"serializer:json"`
	Adjuntos         []string      `gorm:"serializer:json"`
	CreatedAt        int64         `gorm:"not null"`
	UpdatedAt        int64         `gorm:"not null"`
}
