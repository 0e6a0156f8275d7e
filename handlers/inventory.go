package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-relieflink/estimator"
	"go-relieflink/types"
)

func (h *Handlers) ListInventory(c *gin.Context) {
	items, err := h.Stock.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// EstimateInventory compares outstanding demand with stock on hand.
func (h *Handlers) EstimateInventory(c *gin.Context) {
	estimates, err := estimator.EstimateFromStore(c.Request.Context(), h.Reports)
	if err != nil {
		h.respondError(c, err)
		return
	}
	shortages := estimator.Shortages(estimates)
	if shortages == nil {
		shortages = []estimator.ItemEstimate{}
	}
	c.JSON(http.StatusOK, gin.H{"items": estimates, "shortages": shortages})
}

func (h *Handlers) DemandDistribution(c *gin.Context) {
	requests, err := h.Reports.ListRequests(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimator.DemandDistribution(requests))
}

func (h *Handlers) SetStock(c *gin.Context) {
	var body estimator.StockLevel
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	item, err := h.Stock.Set(c.Request.Context(), types.ItemKind(c.Param("kind")), body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type adjustBody struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *Handlers) AdjustStock(c *gin.Context) {
	var body adjustBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	item, err := h.Stock.Adjust(c.Request.Context(), types.ItemKind(c.Param("kind")), body.Delta)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
