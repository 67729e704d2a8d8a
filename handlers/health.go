package handlers

import (
	"net/http"

	"tableorder/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the last snapshot taken by the health monitor.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if status.Status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
