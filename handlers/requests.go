package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-relieflink/assignment"
	"go-relieflink/lifecycle"
	"go-relieflink/types"
)

type createRequestBody struct {
	Location string           `json:"location" binding:"required"`
	Items    []types.ItemKind `json:"items" binding:"required,min=1"`
}

func (h *Handlers) CreateRequest(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	settings, err := h.Settings.GetSettings(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := lifecycle.CheckOffered(body.Items, settings.ActiveDisaster); err != nil {
		h.respondError(c, err)
		return
	}

	id := identity(c)
	name := id.Name
	if profile, err := h.Users.Profile(c.Request.Context(), id.UID); err == nil && profile.Name != "" {
		name = profile.Name
	}

	req, err := h.Requests.CreateRequest(c.Request.Context(), lifecycle.Victim{ID: id.UID, Name: name}, body.Location, body.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *Handlers) MyRequests(c *gin.Context) {
	requests, err := h.Requests.RequestsForVictim(c.Request.Context(), identity(c).UID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *Handlers) ListRequests(c *gin.Context) {
	requests, err := h.Requests.ListRequests(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// RequestQR returns the QR image link for a request. Only the victim who
// filed it, its volunteer and admins may see it.
func (h *Handlers) RequestQR(c *gin.Context) {
	req, err := h.Requests.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	id := identity(c)
	if id.Role != types.RoleAdmin && id.UID != req.VictimID && id.UID != req.AssignedVolunteerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requestId": req.ID, "qrUrl": lifecycle.QRCodeURL(req.ID)})
}

func (h *Handlers) MyTasks(c *gin.Context) {
	tasks, err := h.Requests.TasksForVolunteer(c.Request.Context(), identity(c).UID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handlers) ListVolunteers(c *gin.Context) {
	volunteers, err := h.Users.ListVolunteers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, volunteers)
}

type assignBody struct {
	VolunteerID string `json:"volunteerId" binding:"required"`
}

func (h *Handlers) AssignVolunteer(c *gin.Context) {
	var body assignBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	ctx := c.Request.Context()

	req, err := h.Requests.GetRequest(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	volunteers, err := h.Users.ListVolunteers(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	volunteer, ok := assignment.SelectVolunteer(req, assignment.Candidates(volunteers), body.VolunteerID)
	if !ok {
		if req.Status != types.StatusPending {
			h.respondError(c, &types.InvalidTransitionError{RequestID: req.ID, From: req.Status, Action: "assign"})
			return
		}
		h.respondError(c, types.NewValidationError("volunteerId", "%q is not a volunteer", body.VolunteerID))
		return
	}

	assigned, err := h.Requests.AssignVolunteer(ctx, req.ID, volunteer.ID, volunteer.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assigned)
}

// ConfirmDelivery closes a task. Volunteers may only close their own; admins any.
func (h *Handlers) ConfirmDelivery(c *gin.Context) {
	id := identity(c)
	var (
		req types.AidRequest
		err error
	)
	if id.Role == types.RoleAdmin {
		req, err = h.Requests.MarkDelivered(c.Request.Context(), c.Param("id"))
	} else {
		req, err = h.Requests.ConfirmDelivery(c.Request.Context(), c.Param("id"), id.UID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
