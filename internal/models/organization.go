package models

import "time"

type Organization struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:200;not null;uniqueIndex:ux_organizations_name" json:"name"`
	Category string `gorm:"size:50" json:"category"`
	Location string `gorm:"size:200" json:"location"`
	Contact  string `gorm:"size:100" json:"contact"`
	Active   bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
