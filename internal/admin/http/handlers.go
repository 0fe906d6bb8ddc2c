package http

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studioform/portfolio-admin-backend/internal/auth"
	"github.com/studioform/portfolio-admin-backend/internal/recordstore"
)

func (h *Handler) dashboard(c *gin.Context) {
	if err := h.dash.EnsureLoaded(c.Request.Context()); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error(), "dashboard": h.dash.View()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dashboard": h.dash.View()})
}

func (h *Handler) refresh(c *gin.Context) {
	if err := h.dash.FetchAll(c.Request.Context()); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error(), "dashboard": h.dash.View()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dashboard": h.dash.View()})
}

func (h *Handler) listProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": h.dash.Projects().View()})
}

// createProject drives the full dialog cycle in one request: open, merge
// fields, submit.
func (h *Handler) createProject(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	p := h.dash.Projects()
	p.AddRequested()
	for name, value := range fields {
		p.FieldChanged(name, value)
	}
	if err := p.Submit(c.Request.Context()); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "projects": p.View()})
}

func (h *Handler) updateProject(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	p := h.dash.Projects()
	if err := p.EditRequested(id); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	for name, value := range fields {
		p.FieldChanged(name, value)
	}
	if err := p.Submit(c.Request.Context()); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": p.View()})
}

func (h *Handler) deleteProject(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.dash.Projects().DeleteRequested(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) dialog(c *gin.Context) {
	var req dialogReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p := h.dash.Projects()
	switch req.Action {
	case "add":
		p.AddRequested()
	case "edit":
		if err := p.EditRequested(req.ID); err != nil {
			c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
			return
		}
	case "cancel":
		p.Cancel()
	case "submit":
		if err := p.Submit(c.Request.Context()); err != nil {
			c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown action"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": p.View()})
}

func (h *Handler) dialogView(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "dialog": h.dash.Projects().View().Dialog})
}

func (h *Handler) dialogField(c *gin.Context) {
	var req fieldReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	h.dash.Projects().FieldChanged(req.Name, req.Value)
	c.JSON(http.StatusOK, gin.H{"ok": true, "dialog": h.dash.Projects().View().Dialog})
}

func (h *Handler) dialogEditor(c *gin.Context) {
	var req editorReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Command == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p := h.dash.Projects()
	if err := p.EditorCommand(req.Command, req.Level, req.Text, req.URL); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dialog": p.View().Dialog})
}

func (h *Handler) dialogImage(c *gin.Context) {
	filename := strings.TrimSpace(c.Query("filename"))
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "filename required"})
		return
	}
	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "empty body"})
		return
	}

	url, err := h.dash.Projects().UploadImage(c.Request.Context(), filename, data)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "url": url, "dialog": h.dash.Projects().View().Dialog})
}

func (h *Handler) listAwards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "awards": h.dash.Awards()})
}

func (h *Handler) listImages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "images": h.dash.Images()})
}

func (h *Handler) logout(c *gin.Context) {
	token := auth.SessionToken(c)
	if err := h.dash.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, auth.LoginPath)
}

func bindID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid id"})
		return 0, false
	}
	return id, true
}

func bindFields(c *gin.Context) (recordstore.Record, bool) {
	var fields recordstore.Record
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return nil, false
	}
	return fields, true
}
