package entity

type MetodoPago string

const (
	MetodoEfectivo      MetodoPago = "Efectivo"
	MetodoTransferencia MetodoPago = "Transferencia"
	MetodoMercadoPago   MetodoPago = "Mercado Pago"
)

type EstadoDePago string

const (
	PagoPagado    EstadoDePago = "Pagado"
	PagoPendiente EstadoDePago = "Pendiente"
)

type Pago struct {
	ID           string     `gorm:"primaryKey"`
	AlumnoID     string     `gorm:"not null;index"` // References: alumnos(id)
	FechaPago    string     `gorm:"not null;index"`
	Monto        float64    `gorm:"not null"`
	MetodoPago   MetodoPago `gorm:"not null"`
	PeriodoDesde string
	PeriodoHasta string
	Notas        string
	Estado       EstadoDePago `gorm:"not null;default:Pagado"`
	Mes          int          `gorm:"not null"`
	Anio         int          `gorm:"not null"`
	CreatedAt    int64        `gorm:"not null"`
	UpdatedAt    int64        `gorm:"not null"`

	// Relations
	Alumno *Alumno `gorm:"foreignKey:AlumnoID;references:ID"`
}
