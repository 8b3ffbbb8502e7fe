package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/roastcv/internal/services"
)

type HealthHandler struct {
	svc services.ResumeStorageService
}

func NewHealthHandler(svc services.ResumeStorageService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

func (h *HealthHandler) Health(c *gin.Context) {
	stats := h.svc.GetStorageStats(c.Request.Context())
	status := http.StatusOK
	if stats.Status != services.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": stats.Status, "storage": stats})
}
