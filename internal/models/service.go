package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrganizationID uint          `gorm:"not null;index" json:"organization_id"`
	Organization   *Organization `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"organization,omitempty"`

	Name                    string `gorm:"size:200;not null" json:"name"`
	CounterLabel            string `gorm:"size:50" json:"counter"`
	EstimatedServiceMinutes int    `gorm:"default:10" json:"estimated_time"`
	Active                  bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
