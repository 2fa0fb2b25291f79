package ticket

import (
	"math"
	"time"

	"github.com/BruksfildServices01/smartq/internal/models"
)

// AverageServiceMinutes averages completed_at - serving_started_at over the
// completed tickets in ts. Others are ignored. Empty input yields 0.
func AverageServiceMinutes(ts []models.QueueTicket) float64 {
	var ds []time.Duration
	for _, t := range ts {
		if Status(t.Status) != StatusCompleted || t.ServingStartedAt == nil || t.CompletedAt == nil {
			continue
		}
		ds = append(ds, t.CompletedAt.Sub(*t.ServingStartedAt))
	}
	return averageMinutes(ds)
}

// AverageWaitMinutes averages serving_started_at - created_at over completed
// tickets. Skipped and still-serving tickets carry no wait.
func AverageWaitMinutes(ts []models.QueueTicket) float64 {
	var ds []time.Duration
	for _, t := range ts {
		if Status(t.Status) != StatusCompleted || t.ServingStartedAt == nil {
			continue
		}
		ds = append(ds, t.ServingStartedAt.Sub(t.CreatedAt))
	}
	return averageMinutes(ds)
}

func averageMinutes(ds []time.Duration) float64 {
	if len(ds) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range ds {
		total += d
	}
	avg := total.Minutes() / float64(len(ds))
	return math.Round(avg*10) / 10
}
