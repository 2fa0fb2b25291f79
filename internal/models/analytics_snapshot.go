package models

import "time"

type AnalyticsSnapshot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Day       time.Time `gorm:"type:date;not null;uniqueIndex:ux_snapshots_day_service,priority:1" json:"day"`
	ServiceID uint      `gorm:"not null;uniqueIndex:ux_snapshots_day_service,priority:2" json:"service_id"`
	Service   *Service  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	OrganizationID uint `gorm:"not null;index" json:"organization_id"`

	TotalTickets      int64   `json:"total_tickets"`
	Completed         int64   `json:"completed"`
	Skipped           int64   `json:"skipped"`
	Waiting           int64   `json:"waiting"`
	AvgWaitMinutes    float64 `json:"average_wait_time"`
	AvgServiceMinutes float64 `json:"average_service_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
