package entity

// Turno is a recurring daily shift of the venue ("09:00"-"12:00" etc).
// Active turnos must not overlap each other.
type Turno struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	StartTime string `gorm:"not null"`
	EndTime   string `gorm:"not null"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null"`
}
