package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plcwatch/go-plc-alerts/internal/models"
	"github.com/plcwatch/go-plc-alerts/internal/repository"
)

// Listing pulls both lifecycle buckets with a per-status ceiling,
// most recent first.
const defaultListLimit = 250

var listStatuses = []models.Status{models.StatusOpen, models.StatusClose}

type Handler struct {
	alerts       repository.AlertRepository
	measurements repository.MeasurementRepository
}

func NewHandler(alerts repository.AlertRepository, measurements repository.MeasurementRepository) *Handler {
	return &Handler{
		alerts:       alerts,
		measurements: measurements,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/alerts", h.listAlerts)
	r.GET("/api/alerts/:alert_id", h.getAlert)
	r.PUT("/api/alerts/:alert_id", h.updateAlert)
	r.POST("/api/alerts/:alert_id/close", h.closeAlert)
	r.DELETE("/api/alerts/:alert_id", h.deleteAlert)
	r.DELETE("/api/alerts", h.deleteAlerts)
	r.GET("/api/plc-data/:loop_name", h.getPLCData)
	r.GET("/health", h.health)
}

func (h *Handler) listAlerts(c *gin.Context) {
	items := []models.Alert{}
	for _, status := range listStatuses {
		alerts, err := h.alerts.List(c.Request.Context(), repository.Filter{
			Status:          status,
			Limit:           defaultListLimit,
			MostRecentFirst: true,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list alerts"})
			return
		}
		items = append(items, alerts...)
	}

	// The operator UI treats an empty store as unprocessable rather
	// than an empty page.
	if len(items) == 0 {
		c.JSON(http.StatusUnprocessableEntity, items)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getAlert(c *gin.Context) {
	alert, err := h.alerts.GetByID(c.Request.Context(), c.Param("alert_id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get alert"})
		return
	}
	c.JSON(http.StatusOK, alert)
}

// updateBody carries the sparse fields the UI may amend. Absent fields
// stay untouched.
type updateBody struct {
	Status         *models.Status `json:"status"`
	ClosedAt       *string        `json:"closedAt"`
	Comment        *string        `json:"comment"`
	ConversationID *string        `json:"conversation_id"`
}

func (h *Handler) updateAlert(c *gin.Context) {
	var body updateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := models.AlertPatch{
		Status:         body.Status,
		ClosedAt:       body.ClosedAt,
		Comment:        body.Comment,
		ConversationID: body.ConversationID,
	}

	alert, err := h.alerts.Update(c.Request.Context(), c.Param("alert_id"), patch)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update alert"})
		return
	}
	c.JSON(http.StatusOK, alert)
}

type closeBody struct {
	ClosedAt string `json:"closedAt"`
	ClosedBy string `json:"closedBy"`
	Comment  string `json:"comment"`
}

func (h *Handler) closeAlert(c *gin.Context) {
	var body closeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := models.ClosePatch(body.ClosedAt, body.ClosedBy, body.Comment)
	alert, err := h.alerts.Update(c.Request.Context(), c.Param("alert_id"), patch)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close alert"})
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *Handler) deleteAlert(c *gin.Context) {
	err := h.alerts.Delete(c.Request.Context(), c.Param("alert_id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete alert"})
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) deleteAlerts(c *gin.Context) {
	n, err := h.alerts.DeleteAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete alerts"})
		return
	}
	if n == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
