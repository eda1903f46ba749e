package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type NotFoundHandler struct {
	title string
}

func NewNotFoundHandler(title string) *NotFoundHandler {
	return &NotFoundHandler{title: title}
}

// NotFound answers JSON for unknown /api paths and renders the 404 page otherwise
func (h *NotFoundHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	data := gin.H{
		"Title":         h.title,
		"RequestedPath": c.Request.URL.Path,
	}

	c.HTML(http.StatusNotFound, "404", data)
}
