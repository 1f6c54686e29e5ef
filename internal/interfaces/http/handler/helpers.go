package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// lineIndex parses the :index path parameter for sale line operations
func (h *BaseHandler) lineIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		h.BadRequest(c, "Line index must be a non-negative integer")
		return 0, false
	}
	return index, true
}
