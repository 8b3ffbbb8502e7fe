package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/roastcv/internal/models"
	"github.com/yoockh/roastcv/internal/services"
)

type AdminHandler struct {
	svc services.ResumeStorageService
}

func NewAdminHandler(svc services.ResumeStorageService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) List(c *gin.Context) {
	rows, err := h.svc.ListResumes(c.Request.Context(), int64(queryInt(c, "limit", 50)))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows, "count": len(rows)})
}

func (h *AdminHandler) Get(c *gin.Context) {
	rec, err := h.svc.GetResume(c.Request.Context(), c.Param("resume_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteResume(c.Request.Context(), c.Param("resume_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) Audit(c *gin.Context) {
	rows, err := h.svc.AuditTrail(c.Request.Context(), c.Param("resume_id"), queryInt(c, "limit", 20))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

type StatsResponse struct {
	Storage services.StorageStats `json:"storage"`
	Scores  *models.ScoreSummary  `json:"scores"`
}

func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	scores, err := h.svc.ScoreSummary(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatsResponse{Storage: h.svc.GetStorageStats(ctx), Scores: scores})
}
