package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentnest/server/internal/menu"
)

// GetMenu returns the navbar entries for the current user with the item for
// ?path= selected.
func (h *Handler) GetMenu(c *gin.Context) {
	m := menu.UserMenu(h.currentUser(c), nil, menu.Actions{})
	m.Select(c.Query("path"))
	c.JSON(http.StatusOK, m)
}
