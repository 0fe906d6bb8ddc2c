package http

import "github.com/gin-gonic/gin"

// Register attaches the admin routes to the gated router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.dashboard)
	rg.POST("/refresh", h.refresh)
	rg.POST("/logout", h.logout)

	rg.GET("/projects", h.listProjects)
	rg.POST("/projects", h.createProject)
	rg.PUT("/projects/:id", h.updateProject)
	rg.DELETE("/projects/:id", h.deleteProject)

	rg.GET("/projects/dialog", h.dialogView)
	rg.POST("/projects/dialog", h.dialog)
	rg.POST("/projects/dialog/field", h.dialogField)
	rg.POST("/projects/dialog/editor", h.dialogEditor)
	rg.POST("/projects/dialog/image", h.dialogImage)

	rg.GET("/awards", h.listAwards)
	rg.GET("/images", h.listImages)
}
