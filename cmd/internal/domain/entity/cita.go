package entity

type CitaStatus string

const (
	CitaScheduled  CitaStatus = "scheduled"
	CitaConfirmed  CitaStatus = "confirmed"
	CitaInProgress CitaStatus = "in-progress"
	CitaCompleted  CitaStatus = "completed"
	CitaCancelled  CitaStatus = "cancelled"
	CitaNoShow     CitaStatus = "no-show"
)

type CitaType string

const (
	CitaIndividual   CitaType = "individual"
	CitaGroup        CitaType = "group"
	CitaEvaluation   CitaType = "evaluation"
	CitaConsultation CitaType = "consultation"
)

type RecurringType string

const (
	RecurringDaily   RecurringType = "daily"
	RecurringWeekly  RecurringType = "weekly"
	RecurringMonthly RecurringType = "monthly"
)

// Cita is a booked session. Date is "YYYY-MM-DD", Time is "HH:MM";
// Duration and BufferTime are minutes. A cita never crosses midnight.
type Cita struct {
	ID            string     `gorm:"primaryKey"`
	Title         string     `gorm:"not null"`
	Date          string     `gorm:"not null;index"`
	Time          string     `gorm:"not null"`
	Duration      int        `gorm:"not null"`
	AlumnoID      string     `gorm:"index"` // References: alumnos(id)
	Status        CitaStatus `gorm:"not null;default:scheduled"`
	Type          CitaType   `gorm:"not null;default:individual"`
	Notes         string
	Recurring     bool `gorm:"not null"`
	RecurringType RecurringType
	RecurringEnd  string
	MaxCapacity   int   `gorm:"not null;default:1"`
	BufferTime    int   `gorm:"not null"`
	CreatedAt     int64 `gorm:"not null"`
	UpdatedAt     int64 `gorm:"not null"`

	// Relations
	Alumno *Alumno `gorm:"foreignKey:AlumnoID;references:ID"`
}
