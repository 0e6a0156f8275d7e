package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-relieflink/types"
)

func (h *Handlers) ListAlerts(c *gin.Context) {
	all, err := h.Alerts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, all)
}

func (h *Handlers) LatestAlert(c *gin.Context) {
	latest, ok, err := h.Alerts.LatestFromStore(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no alerts"})
		return
	}
	c.JSON(http.StatusOK, latest)
}

type broadcastBody struct {
	Type    types.DisasterType `json:"type" binding:"required"`
	Message string             `json:"message" binding:"required"`
}

func (h *Handlers) BroadcastAlert(c *gin.Context) {
	var body broadcastBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	alert, err := h.Alerts.Broadcast(c.Request.Context(), body.Type, body.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}
