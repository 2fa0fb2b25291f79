package dto

import "time"

type OrganizationListDTO struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Location      string    `json:"location"`
	Contact       string    `json:"contact"`
	Active        bool      `json:"active"`
	ServicesCount int64     `json:"services_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type ServiceListDTO struct {
	ID                 uint      `json:"id"`
	OrganizationID     uint      `json:"organization_id"`
	OrganizationName   string    `json:"organization_name"`
	Name               string    `json:"name"`
	Counter            string    `json:"counter"`
	EstimatedTime      int       `json:"estimated_time"`
	Active             bool      `json:"active"`
	CurrentQueueLength int64     `json:"current_queue_length"`
	CreatedAt          time.Time `json:"created_at"`
}

type ProviderDTO struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"user_id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	ServiceID   uint       `json:"service_id"`
	ServiceName string     `json:"service_name"`
	Active      bool       `json:"active"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
}

type UserDTO struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}
