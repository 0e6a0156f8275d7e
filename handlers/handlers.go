// Package handlers exposes the relief services over HTTP.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-relieflink/alerts"
	"go-relieflink/assistant"
	"go-relieflink/auth"
	"go-relieflink/db"
	"go-relieflink/estimator"
	"go-relieflink/lifecycle"
	"go-relieflink/shelters"
	"go-relieflink/types"
)

// Streamer produces an assistant reply incrementally.
type Streamer interface {
	Stream(ctx context.Context, history []assistant.Turn) (<-chan assistant.Fragment, error)
}

// Deps are the services the handlers call into. Assistant may be nil when no
// OpenAI key is configured.
type Deps struct {
	Requests  *lifecycle.Engine
	Alerts    *alerts.Service
	Shelters  *shelters.Service
	Stock     *estimator.Stock
	Reports   estimator.Source
	Users     *auth.Service
	Settings  db.SettingsStore
	Assistant Streamer
	Log       *zap.Logger
}

type Handlers struct {
	Deps
	log *zap.Logger
}

func New(d Deps) *Handlers {
	return &Handlers{Deps: d, log: d.Log.Named("http")}
}

// StatusFor maps a service error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case types.IsValidation(err):
		return http.StatusBadRequest
	case types.IsInvalidTransition(err):
		return http.StatusConflict
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrNotAssignee):
		return http.StatusForbidden
	case types.IsRemote(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
		message = http.StatusText(status)
	}
	c.JSON(status, gin.H{"error": message})
}

// bindError reports a malformed request body.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func identity(c *gin.Context) auth.Identity {
	id, _ := auth.IdentityFrom(c)
	return id
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
