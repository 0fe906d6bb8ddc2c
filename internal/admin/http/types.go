// Package http exposes the admin dashboard over gin. Handlers translate HTTP
// requests into controller events and render View snapshots as JSON.
package http

import (
	"net/http"

	"github.com/studioform/portfolio-admin-backend/internal/admin/controller"
	"github.com/studioform/portfolio-admin-backend/internal/recordstore"
)

type Handler struct {
	dash       *controller.Dashboard
	cookieName string
}

func NewHandler(dash *controller.Dashboard, cookieName string) *Handler {
	return &Handler{dash: dash, cookieName: cookieName}
}

type dialogReq struct {
	Action string `json:"action"`
	ID     int64  `json:"id"`
}

type fieldReq struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type editorReq struct {
	Command string `json:"command"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
	URL     string `json:"url"`
}

// statusFor maps store error kinds onto HTTP statuses.
func statusFor(err error) int {
	switch recordstore.KindOf(err) {
	case recordstore.KindUnauthorized:
		return http.StatusUnauthorized
	case recordstore.KindNotFound:
		return http.StatusNotFound
	case recordstore.KindConflict:
		return http.StatusConflict
	case recordstore.KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}
