package handler

import (
	"net/http"

	"github.com/Rishu1724/TextMeIfYouCan/internal/hub"

	"github.com/gin-gonic/gin"
)

// MonitorHandler exposes hub statistics.
type MonitorHandler interface {
	GetHubStats(c *gin.Context)
}

type monitorHandler struct {
	monitorService *hub.MonitorService
}

func NewMonitorHandler(monitorService *hub.MonitorService) MonitorHandler {
	return &monitorHandler{
		monitorService: monitorService,
	}
}

// GetHubStats returns current connection and room statistics.
func (h *monitorHandler) GetHubStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitorService.GetStats())
}
