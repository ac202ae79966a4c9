package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"usergraph/internal/core/port"
)

// AdminHandler exposes the destructive operations that stay off the public
// GraphQL surface.
type AdminHandler struct {
	svc port.UserService
}

func NewAdminHandler(svc port.UserService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// HardDeleteUser physically removes a row, soft-deleted or not.
func (h *AdminHandler) HardDeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []string{"invalid user id"},
		})
		return
	}

	removed, err := h.svc.HardDeleteUser(c.Request.Context(), id)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"errors": []string{"internal error"},
		})
		return
	}

	if !removed {
		c.JSON(http.StatusNotFound, gin.H{
			"errors": []string{"user not found"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "user permanently removed",
	})
}
