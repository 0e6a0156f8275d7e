package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-relieflink/assistant"
)

type chatBody struct {
	History []assistant.Turn `json:"history" binding:"required,min=1,dive"`
}

// Chat streams the assistant's reply as server-sent events: one "message"
// event per fragment, then "done", or "error" if the reply broke off.
func (h *Handlers) Chat(c *gin.Context) {
	if h.Assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}

	var body chatBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	fragments, err := h.Assistant.Stream(c.Request.Context(), body.History)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	for frag := range fragments {
		if frag.Err != nil {
			c.SSEvent("error", "the assistant stopped responding")
			c.Writer.Flush()
			return
		}
		c.SSEvent("message", frag.Text)
		c.Writer.Flush()
	}
	if c.Request.Context().Err() == nil {
		c.SSEvent("done", "")
		c.Writer.Flush()
	}
}
