package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/smartq/internal/dto"
	"github.com/BruksfildServices01/smartq/internal/httperr"
	"github.com/BruksfildServices01/smartq/internal/models"
	ticketuc "github.com/BruksfildServices01/smartq/internal/usecase/ticket"
	"github.com/BruksfildServices01/smartq/internal/validators"
)

// StaffHandler exposes a provider's own queue. Every endpoint requires the
// staff role and an active provider profile.
type StaffHandler struct {
	service  *ticketuc.GetStaffService
	queue    *ticketuc.GetStaffQueue
	callNext *ticketuc.CallNextTicket
	complete *ticketuc.CompleteTicket
	skip     *ticketuc.SkipTicket
	stats    *ticketuc.GetStaffStats
}

func NewStaffHandler(
	service *ticketuc.GetStaffService,
	queue *ticketuc.GetStaffQueue,
	callNext *ticketuc.CallNextTicket,
	complete *ticketuc.CompleteTicket,
	skip *ticketuc.SkipTicket,
	stats *ticketuc.GetStaffStats,
) *StaffHandler {
	return &StaffHandler{
		service:  service,
		queue:    queue,
		callNext: callNext,
		complete: complete,
		skip:     skip,
		stats:    stats,
	}
}

func (h *StaffHandler) GetService(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleStaff)
	if !ok {
		return
	}

	provider, svc, err := h.service.Execute(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": gin.H{
			"id":    provider.ID,
			"name":  provider.DisplayName,
			"phone": provider.Phone,
		},
		"service": svc,
	})
}

func (h *StaffHandler) GetQueue(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleStaff)
	if !ok {
		return
	}

	view, err := h.queue.Execute(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp := dto.StaffQueueDTO{
		ServiceID:   view.Service.ID,
		ServiceName: view.Service.Name,
		Counter:     view.Service.CounterLabel,
		Waiting:     make([]dto.StaffWaitingDTO, 0, len(view.Waiting)),
	}

	for i, t := range view.Waiting {
		resp.Waiting = append(resp.Waiting, dto.StaffWaitingDTO{
			ID:          t.ID,
			QueueNumber: t.QueueNumber,
			Phone:       validators.MaskPhone(t.ClientPhone),
			Priority:    t.Priority,
			CreatedAt:   t.CreatedAt,
			Position:    i + 1,
		})
	}

	if s := view.Serving; s != nil {
		resp.Serving = &dto.StaffServingDTO{
			ID:           s.ID,
			QueueNumber:  s.QueueNumber,
			Phone:        validators.MaskPhone(s.ClientPhone),
			Priority:     s.Priority,
			ServingSince: s.ServingStartedAt,
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StaffHandler) CallNext(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleStaff)
	if !ok {
		return
	}

	t, err := h.callNext.Execute(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, toTicketDTO(t))
}

func (h *StaffHandler) Complete(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleStaff)
	if !ok {
		return
	}
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	t, err := h.complete.Execute(c.Request.Context(), userID, ticketID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, toTicketDTO(t))
}

func (h *StaffHandler) Skip(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleStaff)
	if !ok {
		return
	}
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	t, err := h.skip.Execute(c.Request.Context(), userID, ticketID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, toTicketDTO(t))
}

func (h *StaffHandler) Stats(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleStaff)
	if !ok {
		return
	}

	stats, err := h.stats.Execute(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func toTicketDTO(t *models.QueueTicket) dto.TicketDTO {
	return dto.TicketDTO{
		ID:               t.ID,
		QueueNumber:      t.QueueNumber,
		ServiceID:        t.ServiceID,
		Status:           t.Status,
		Priority:         t.Priority,
		CreatedAt:        t.CreatedAt,
		CalledAt:         t.CalledAt,
		ServingStartedAt: t.ServingStartedAt,
		CompletedAt:      t.CompletedAt,
	}
}
