package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/roastcv/internal/api/handlers"
	"github.com/yoockh/roastcv/internal/api/middleware"
)

type Deps struct {
	Resume  *handlers.ResumeHandler
	Admin   *handlers.AdminHandler
	Health  *handlers.HealthHandler
	Limiter *middleware.IPRateLimiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", d.Health.Health)

	api := r.Group("/api")
	upload := []gin.HandlerFunc{}
	if d.Limiter != nil {
		upload = append(upload, middleware.RateLimit(d.Limiter))
	}
	api.POST("/resume/analyze", append(upload, d.Resume.Analyze)...)

	// Admin routes (JWT + admin role)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())

	admin.GET("/resumes", d.Admin.List)
	admin.GET("/resumes/:resume_id", d.Admin.Get)
	admin.GET("/resumes/:resume_id/audit", d.Admin.Audit)
	admin.DELETE("/resumes/:resume_id", d.Admin.Delete)
	admin.GET("/stats", d.Admin.Stats)
}
