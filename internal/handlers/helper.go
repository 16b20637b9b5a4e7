package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := c.Param(param)
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// ParseIndexParam reads a non-negative position from the path
func ParseIndexParam(c *gin.Context, param string) (int, bool) {
	value, err := strconv.Atoi(c.Param(param))
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a non-negative integer",
		})
		return 0, false
	}
	return value, true
}

// ParseIntQuery returns defaultValue when the query parameter is absent
func ParseIntQuery(c *gin.Context, param string, defaultValue int) (int, bool) {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue, true
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a non-negative integer",
		})
		return 0, false
	}
	return value, true
}
