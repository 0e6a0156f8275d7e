package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-relieflink/types"
)

func (h *Handlers) GetDisaster(c *gin.Context) {
	settings, err := h.Settings.GetSettings(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activeDisaster": settings.ActiveDisaster, "options": types.DisasterTypes})
}

func (h *Handlers) SetDisaster(c *gin.Context) {
	var body types.PlatformSettings
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	if !body.ActiveDisaster.Valid() {
		h.respondError(c, types.NewValidationError("activeDisaster", "unknown disaster type %q", body.ActiveDisaster))
		return
	}
	if err := h.Settings.SaveSettings(c.Request.Context(), body); err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Info("active disaster changed", zap.String("disaster", string(body.ActiveDisaster)))
	c.JSON(http.StatusOK, body)
}

type itemOption struct {
	Kind     types.ItemKind `json:"kind"`
	Label    string         `json:"label"`
	Physical bool           `json:"physical"`
}

// ListItems returns what victims can request during a disaster. Without a
// disaster query parameter the active one is used.
func (h *Handlers) ListItems(c *gin.Context) {
	disaster := types.DisasterType(c.Query("disaster"))
	if disaster == "" {
		settings, err := h.Settings.GetSettings(c.Request.Context())
		if err != nil {
			h.respondError(c, err)
			return
		}
		disaster = settings.ActiveDisaster
	}
	if !disaster.Valid() {
		h.respondError(c, types.NewValidationError("disaster", "unknown disaster type %q", disaster))
		return
	}

	kinds := types.ItemsFor(disaster)
	options := make([]itemOption, 0, len(kinds))
	for _, k := range kinds {
		options = append(options, itemOption{Kind: k, Label: k.Label(), Physical: k.PhysicalGood()})
	}
	c.JSON(http.StatusOK, gin.H{"disaster": disaster, "items": options})
}
