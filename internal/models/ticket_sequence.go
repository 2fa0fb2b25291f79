package models

// TicketSequence holds the last queue number handed out on a business day.
type TicketSequence struct {
	Day        string `gorm:"size:8;primaryKey"`
	LastNumber int64  `gorm:"not null;default:0"`
}
