package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-relieflink/shelters"
	"go-relieflink/types"
)

func (h *Handlers) ListShelters(c *gin.Context) {
	all, err := h.Shelters.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, all)
}

func (h *Handlers) GetShelter(c *gin.Context) {
	shelter, err := h.Shelters.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shelter)
}

// NearbyShelters expects lat and lng query parameters; limit defaults to 5.
func (h *Handlers) NearbyShelters(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		h.respondError(c, types.NewValidationError("lat", "lat must be a number"))
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		h.respondError(c, types.NewValidationError("lng", "lng must be a number"))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		h.respondError(c, types.NewValidationError("limit", "limit must be an integer"))
		return
	}
	includeFull := c.Query("includeFull") == "true"

	all, err := h.Shelters.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shelters.Nearest(all, lat, lng, limit, includeFull))
}

func (h *Handlers) CreateShelter(c *gin.Context) {
	var body shelters.NewShelter
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	shelter, err := h.Shelters.CreateShelter(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shelter)
}

type occupancyBody struct {
	CurrentOccupancy *int `json:"currentOccupancy" binding:"required"`
}

func (h *Handlers) UpdateOccupancy(c *gin.Context) {
	var body occupancyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	shelter, err := h.Shelters.UpdateOccupancy(c.Request.Context(), c.Param("id"), *body.CurrentOccupancy)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shelter":       shelter,
		"full":          shelters.IsFull(shelter),
		"occupancyRate": shelters.OccupancyRate(shelter),
	})
}
