package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/smartq/internal/audit"
	domain "github.com/BruksfildServices01/smartq/internal/domain/analytics"
	"github.com/BruksfildServices01/smartq/internal/httperr"
	"github.com/BruksfildServices01/smartq/internal/httpresp"
	"github.com/BruksfildServices01/smartq/internal/models"
	analyticsuc "github.com/BruksfildServices01/smartq/internal/usecase/analytics"
)

type AnalyticsHandler struct {
	overview  *analyticsuc.GetOverview
	breakdown *analyticsuc.ListServiceBreakdown
	snapshot  *analyticsuc.TakeSnapshot
	snapshots *analyticsuc.ListSnapshots
	audit     *audit.Dispatcher
	timezone  string
}

func NewAnalyticsHandler(
	overview *analyticsuc.GetOverview,
	breakdown *analyticsuc.ListServiceBreakdown,
	snapshot *analyticsuc.TakeSnapshot,
	snapshots *analyticsuc.ListSnapshots,
	audit *audit.Dispatcher,
	tz string,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		overview:  overview,
		breakdown: breakdown,
		snapshot:  snapshot,
		snapshots: snapshots,
		audit:     audit,
		timezone:  tz,
	}
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdmin); !ok {
		return
	}

	out, err := h.overview.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *AnalyticsHandler) Services(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdmin); !ok {
		return
	}

	rows, err := h.breakdown.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, rows)
}

func (h *AnalyticsHandler) ListSnapshots(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdmin); !ok {
		return
	}

	from, ok := parseDayParam(c, "from", h.timezone)
	if !ok {
		return
	}
	to, ok := parseDayParam(c, "to", h.timezone)
	if !ok {
		return
	}

	f := domain.SnapshotFilter{From: from, To: to}
	if raw := c.Query("service_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", httperr.MessageFor("invalid_id"))
			return
		}
		f.ServiceID = uint(id)
	}

	snaps, err := h.snapshots.Execute(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, snaps)
}

func (h *AnalyticsHandler) TakeSnapshot(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}

	res, err := h.snapshot.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "snapshot_taken",
		Entity:   "analytics_snapshot",
		Metadata: map[string]any{"day": res.Day, "archived": res.Archived},
	})

	httpresp.Created(c, res)
}
