package analytics

import (
	"time"

	"github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
)

type Summary struct {
	Total             int64
	Completed         int64
	Skipped           int64
	AvgWaitMinutes    float64
	AvgServiceMinutes float64
}

func Summarize(ts []models.QueueTicket) Summary {
	s := Summary{Total: int64(len(ts))}
	for _, t := range ts {
		switch ticket.Status(t.Status) {
		case ticket.StatusCompleted:
			s.Completed++
		case ticket.StatusSkipped:
			s.Skipped++
		}
	}
	s.AvgWaitMinutes = ticket.AverageWaitMinutes(ts)
	s.AvgServiceMinutes = ticket.AverageServiceMinutes(ts)
	return s
}

func GroupByService(ts []models.QueueTicket) map[uint][]models.QueueTicket {
	out := make(map[uint][]models.QueueTicket)
	for _, t := range ts {
		out[t.ServiceID] = append(out[t.ServiceID], t)
	}
	return out
}

// OpenCounts folds StatusCount rows into waiting and serving totals per service.
type OpenCounts struct {
	Waiting map[uint]int64
	Serving map[uint]int64
}

func FoldOpen(rows []StatusCount) OpenCounts {
	oc := OpenCounts{Waiting: map[uint]int64{}, Serving: map[uint]int64{}}
	for _, r := range rows {
		switch ticket.Status(r.Status) {
		case ticket.StatusWaiting:
			oc.Waiting[r.ServiceID] += r.Count
		case ticket.StatusServing:
			oc.Serving[r.ServiceID] += r.Count
		}
	}
	return oc
}

func (oc OpenCounts) TotalWaiting() int64 {
	var n int64
	for _, c := range oc.Waiting {
		n += c
	}
	return n
}

func (oc OpenCounts) TotalServing() int64 {
	var n int64
	for _, c := range oc.Serving {
		n += c
	}
	return n
}

// Breakdown builds one row per service from the day's tickets.
func Breakdown(services []ServiceRef, today []models.QueueTicket, open OpenCounts) []ServiceBreakdown {
	byService := GroupByService(today)
	out := make([]ServiceBreakdown, 0, len(services))
	for _, svc := range services {
		s := Summarize(byService[svc.ID])
		out = append(out, ServiceBreakdown{
			ServiceID:          svc.ID,
			ServiceName:        svc.Name,
			OrganizationID:     svc.OrganizationID,
			Organization:       svc.OrganizationName,
			TotalToday:         s.Total,
			Completed:          s.Completed,
			Skipped:            s.Skipped,
			WaitingNow:         open.Waiting[svc.ID],
			AverageWaitTime:    s.AvgWaitMinutes,
			AverageServiceTime: s.AvgServiceMinutes,
		})
	}
	return out
}

// Snapshots turns a breakdown into rows for day. day is truncated to a date.
func Snapshots(day time.Time, rows []ServiceBreakdown) []models.AnalyticsSnapshot {
	y, m, d := day.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	out := make([]models.AnalyticsSnapshot, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AnalyticsSnapshot{
			Day:               date,
			ServiceID:         r.ServiceID,
			OrganizationID:    r.OrganizationID,
			TotalTickets:      r.TotalToday,
			Completed:         r.Completed,
			Skipped:           r.Skipped,
			Waiting:           r.WaitingNow,
			AvgWaitMinutes:    r.AverageWaitTime,
			AvgServiceMinutes: r.AverageServiceTime,
		})
	}
	return out
}
