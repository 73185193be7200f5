package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler renders the server-side pages. The chat page carries the badge,
// the conversation list and the poller script.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Chat(c *gin.Context) {
	c.HTML(http.StatusOK, "chat.html", gin.H{
		"title": "Kuanda - Conversas",
	})
}

func (h *PageHandler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Kuanda - Entrar",
	})
}
