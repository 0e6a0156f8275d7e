package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-relieflink/auth"
	"go-relieflink/types"
)

// Me returns the caller's profile. A signed-in user who has not registered yet
// gets their token identity with registered=false.
func (h *Handlers) Me(c *gin.Context) {
	id := identity(c)
	profile, err := h.Users.Profile(c.Request.Context(), id.UID)
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{
			"registered": false,
			"profile":    types.User{ID: id.UID, Name: id.Name, Email: id.Email, Role: id.Role},
		})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": true, "profile": profile})
}

type registerBody struct {
	Name        string     `json:"name" binding:"required"`
	Email       string     `json:"email"`
	Role        types.Role `json:"role" binding:"required"`
	PhoneNumber string     `json:"phoneNumber"`
	Location    string     `json:"location"`
}

func (h *Handlers) RegisterProfile(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	id := identity(c)
	email := id.Email
	if email == "" {
		email = body.Email
	}
	user, err := h.Users.RegisterProfile(c.Request.Context(), auth.Registration{
		UID:         id.UID,
		Email:       email,
		Name:        body.Name,
		Role:        body.Role,
		PhoneNumber: body.PhoneNumber,
		Location:    body.Location,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
