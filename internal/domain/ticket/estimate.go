package ticket

import "github.com/BruksfildServices01/smartq/internal/models"

const (
	DefaultServiceMinutes = 10
	MaxPriority           = 10
)

// EstimateWait is the number of tickets already waiting times the service's
// per-ticket estimate, in minutes.
func EstimateWait(waiting int64, svc *models.Service) int {
	per := svc.EstimatedServiceMinutes
	if per <= 0 {
		per = DefaultServiceMinutes
	}
	return int(waiting) * per
}
