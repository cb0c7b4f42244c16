package entity

type Moneda string

const (
	MonedaARS Moneda = "ARS"
	MonedaUSD Moneda = "USD"
)

type TipoServicio string

const (
	ServicioMensual    TipoServicio = "mensual"
	ServicioClase      TipoServicio = "clase"
	ServicioEvaluacion TipoServicio = "evaluacion"
)

// CambioPrecio is one entry of a price record's change log.
type CambioPrecio struct {
	Fecha          string  `json:"fecha"`
	PrecioAnterior float64 `json:"precioAnterior"`
	PrecioNuevo    float64 `json:"precioNuevo"`
	Motivo         string  `json:"motivo,omitempty"`
}

// IncrementoProgramado is a future price raise scheduled for a service.
type IncrementoProgramado struct {
	Fecha      string  `json:"fecha"`
	Porcentaje float64 `json:"porcentaje"`
	Notificado bool    `json:"notificado"`
}

// HistorialPrecio is one entry of a service's price timeline. At most one
// entry per servicio is active at a time; FechaFin is empty while active.
type HistorialPrecio struct {
	ID                    string  `gorm:"primaryKey"`
	Servicio              string  `gorm:"not null;index"`
	Precio                float64 `gorm:"not null"`
	FechaInicio           string  `gorm:"not null"`
	FechaFin              string
	Notas                 string
	Activo                bool         `gorm:"not null"`
	Moneda                Moneda       `gorm:"not null;default:ARS"`
	TipoServicio          TipoServicio `gorm:"not null;default:mensual"`
	HistorialCambios      []CambioPrecio         `gorm:"serializer:json"`
	IncrementosProgramados []IncrementoProgramado `gorm:"serializer:json"`
	CreatedAt             int64 `gorm:"not null"`
	UpdatedAt             int64 `gorm:"not null"`
}
