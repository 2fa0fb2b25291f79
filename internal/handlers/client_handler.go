package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/dto"
	"github.com/BruksfildServices01/smartq/internal/httperr"
	"github.com/BruksfildServices01/smartq/internal/httpresp"
	"github.com/BruksfildServices01/smartq/internal/models"
	ticketuc "github.com/BruksfildServices01/smartq/internal/usecase/ticket"
)

// ClientHandler serves the public, unauthenticated queue endpoints.
type ClientHandler struct {
	db *gorm.DB

	enqueue    *ticketuc.EnqueueTicket
	status     *ticketuc.GetTicketStatus
	nowServing *ticketuc.GetNowServing
}

func NewClientHandler(
	db *gorm.DB,
	enqueue *ticketuc.EnqueueTicket,
	status *ticketuc.GetTicketStatus,
	nowServing *ticketuc.GetNowServing,
) *ClientHandler {
	return &ClientHandler{
		db:         db,
		enqueue:    enqueue,
		status:     status,
		nowServing: nowServing,
	}
}

// --------- Requests ---------

type EnqueueRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Priority  *int   `json:"priority"`
}

// ======================================================
// DIRECTORY
// ======================================================

func (h *ClientHandler) ListOrganizations(c *gin.Context) {
	var orgs []models.Organization
	if err := h.db.WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("name ASC").
		Find(&orgs).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, orgs)
}

func (h *ClientHandler) ListServices(c *gin.Context) {
	orgID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var org models.Organization
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND active = ?", orgID, true).
		First(&org).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "organization_not_found", httperr.MessageFor("organization_not_found"))
			return
		}
		httperr.Respond(c, err)
		return
	}

	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("organization_id = ? AND active = ?", org.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	counts, err := waitingCounts(h.db.WithContext(c.Request.Context()), serviceIDs(services))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]dto.ServiceWithQueueDTO, 0, len(services))
	for i := range services {
		s := &services[i]
		out = append(out, dto.ServiceWithQueueDTO{
			ID:             s.ID,
			OrganizationID: s.OrganizationID,
			Name:           s.Name,
			Counter:        s.CounterLabel,
			EstimatedTime:  s.EstimatedServiceMinutes,
			QueueLength:    counts[s.ID],
			EstimatedWait:  domain.EstimateWait(counts[s.ID], s),
		})
	}

	httpresp.List(c, out)
}

// ======================================================
// TICKETS
// ======================================================

func (h *ClientHandler) CreateTicket(c *gin.Context) {
	var req EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	in := ticketuc.EnqueueInput{
		ServiceID: req.ServiceID,
		Phone:     req.Phone,
	}
	if req.Priority != nil {
		in.Priority = *req.Priority
	}

	res, err := h.enqueue.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.TicketCreatedDTO{
		ID:            res.Ticket.ID,
		QueueNumber:   res.Ticket.QueueNumber,
		Position:      res.Position,
		EstimatedWait: res.EstimatedWait,
		ServiceName:   res.Service.Name,
		Counter:       res.Service.CounterLabel,
		Notified:      res.Notified,
	})
}

func (h *ClientHandler) GetTicket(c *gin.Context) {
	res, err := h.status.Execute(c.Request.Context(), c.Param("queue_number"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	t := res.Ticket
	wait := t.EstimatedWaitMinutes
	if domain.Status(t.Status) == domain.StatusWaiting {
		wait = domain.EstimateWait(int64(res.Position-1), res.Service)
	}

	c.JSON(http.StatusOK, dto.TicketStatusDTO{
		QueueNumber:   t.QueueNumber,
		Status:        t.Status,
		Position:      res.Position,
		EstimatedWait: wait,
		ServiceName:   res.Service.Name,
		Counter:       res.Service.CounterLabel,
		CreatedAt:     t.CreatedAt,
		CalledAt:      t.CalledAt,
		CompletedAt:   t.CompletedAt,
	})
}

func (h *ClientHandler) NowServing(c *gin.Context) {
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := h.nowServing.Execute(c.Request.Context(), serviceID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp := dto.NowServingDTO{
		ServiceID:    view.Service.ID,
		ServiceName:  view.Service.Name,
		Counter:      view.Service.CounterLabel,
		WaitingCount: view.WaitingCount,
	}
	if view.Serving != nil {
		qn := view.Serving.QueueNumber
		resp.NowServing = &qn
	}

	c.JSON(http.StatusOK, resp)
}

// ======================================================
// HELPERS
// ======================================================

func serviceIDs(services []models.Service) []uint {
	ids := make([]uint, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}
	return ids
}

// waitingCounts returns the number of waiting tickets per service id.
func waitingCounts(db *gorm.DB, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		ServiceID uint
		Total     int64
	}
	if err := db.Model(&models.QueueTicket{}).
		Select("service_id, COUNT(*) AS total").
		Where("service_id IN ? AND status = ?", ids, string(domain.StatusWaiting)).
		Group("service_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.ServiceID] = r.Total
	}
	return counts, nil
}
