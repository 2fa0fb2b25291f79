package models

import "time"

type QueueTicket struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	QueueNumber string `gorm:"size:32;not null;uniqueIndex:ux_queue_tickets_queue_number" json:"queue_number"`

	ServiceID uint     `gorm:"not null;index:idx_queue_tickets_order,priority:1" json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// ProviderID is the provider who called the ticket.
	ProviderID *uint     `gorm:"index" json:"provider_id"`
	Provider   *Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ClientPhone string `gorm:"size:20;not null" json:"phone"`
	Status      string `gorm:"size:20;not null;default:'waiting';index:idx_queue_tickets_order,priority:2" json:"status"`
	Priority    int    `gorm:"not null;default:0;index:idx_queue_tickets_order,priority:3" json:"priority"`

	CreatedAt        time.Time  `gorm:"index:idx_queue_tickets_order,priority:4;index" json:"created_at"`
	CalledAt         *time.Time `json:"called_at"`
	ServingStartedAt *time.Time `json:"serving_started_at"`
	CompletedAt      *time.Time `gorm:"index" json:"completed_at"`

	EstimatedWaitMinutes int    `gorm:"default:0" json:"estimated_wait"`
	Notes                string `gorm:"type:text" json:"notes"`

	UpdatedAt time.Time `json:"updated_at"`
}
