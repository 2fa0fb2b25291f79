package dto

import "time"

// -------- Client --------

type ServiceWithQueueDTO struct {
	ID             uint   `json:"id"`
	OrganizationID uint   `json:"organization_id"`
	Name           string `json:"name"`
	Counter        string `json:"counter"`
	EstimatedTime  int    `json:"estimated_time"`
	QueueLength    int64  `json:"queue_length"`
	EstimatedWait  int    `json:"estimated_wait"`
}

type TicketCreatedDTO struct {
	ID            uint   `json:"id"`
	QueueNumber   string `json:"queue_number"`
	Position      int    `json:"position"`
	EstimatedWait int    `json:"estimated_wait"`
	ServiceName   string `json:"service_name"`
	Counter       string `json:"counter"`
	Notified      bool   `json:"notified"`
}

type TicketStatusDTO struct {
	QueueNumber   string     `json:"queue_number"`
	Status        string     `json:"status"`
	Position      int        `json:"position"`
	EstimatedWait int        `json:"estimated_wait"`
	ServiceName   string     `json:"service_name"`
	Counter       string     `json:"counter"`
	CreatedAt     time.Time  `json:"created_at"`
	CalledAt      *time.Time `json:"called_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

type NowServingDTO struct {
	ServiceID    uint    `json:"service_id"`
	ServiceName  string  `json:"service_name"`
	Counter      string  `json:"counter"`
	NowServing   *string `json:"now_serving"`
	WaitingCount int64   `json:"waiting_count"`
}

// -------- Staff --------

type StaffWaitingDTO struct {
	ID          uint      `json:"id"`
	QueueNumber string    `json:"queue_number"`
	Phone       string    `json:"phone"`
	Priority    int       `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	Position    int       `json:"position"`
}

type StaffServingDTO struct {
	ID           uint       `json:"id"`
	QueueNumber  string     `json:"queue_number"`
	Phone        string     `json:"phone"`
	Priority     int        `json:"priority"`
	ServingSince *time.Time `json:"serving_since"`
}

type StaffQueueDTO struct {
	ServiceID   uint              `json:"service_id"`
	ServiceName string            `json:"service_name"`
	Counter     string            `json:"counter"`
	Waiting     []StaffWaitingDTO `json:"waiting"`
	Serving     *StaffServingDTO  `json:"serving"`
}

type TicketDTO struct {
	ID               uint       `json:"id"`
	QueueNumber      string     `json:"queue_number"`
	ServiceID        uint       `json:"service_id"`
	Status           string     `json:"status"`
	Priority         int        `json:"priority"`
	CreatedAt        time.Time  `json:"created_at"`
	CalledAt         *time.Time `json:"called_at"`
	ServingStartedAt *time.Time `json:"serving_started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}
