package controller

import (
	"github.com/studioform/portfolio-admin-backend/internal/admin/domain"
	"github.com/studioform/portfolio-admin-backend/internal/recordstore"
	"github.com/studioform/portfolio-admin-backend/internal/richtext"
)

// DialogView is the project dialog as the shell should render it. Open is
// true exactly when a draft exists; there is no independent toggle.
type DialogView struct {
	Open   bool               `json:"open"`
	Mode   string             `json:"mode"`
	Draft  recordstore.Record `json:"draft,omitempty"`
	Editor EditorView         `json:"editor"`
}

// EditorView is the authoring surface's toolbar and content state.
type EditorView struct {
	HTML      string `json:"html"`
	Bold      bool   `json:"bold"`
	Italic    bool   `json:"italic"`
	Underline bool   `json:"underline"`
	Link      string `json:"link,omitempty"`
	CanFormat bool   `json:"can_format"`
}

// ProjectsView is the project tab snapshot.
type ProjectsView struct {
	Loading bool             `json:"loading"`
	Error   string           `json:"error,omitempty"`
	Rows    []domain.Project `json:"rows"`
	Dialog  DialogView       `json:"dialog"`
}

// DashboardView is the full admin shell, derived from controller state and
// nothing else.
type DashboardView struct {
	Loading  bool                  `json:"loading"`
	Error    string                `json:"error,omitempty"`
	Tabs     []string              `json:"tabs"`
	Projects ProjectsView          `json:"projects"`
	Awards   []domain.Award        `json:"awards"`
	Images   []domain.ProjectImage `json:"images"`
}

var dashboardTabs = []string{"projects", "awards", "images"}

// View snapshots the project controller.
func (c *ProjectController) View() ProjectsView {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]domain.Project, len(c.projects))
	copy(rows, c.projects)

	v := ProjectsView{
		Loading: c.loading,
		Error:   c.lastError,
		Rows:    rows,
		Dialog: DialogView{
			Open: c.mode != ModeIdle,
			Mode: c.mode.String(),
		},
	}
	if c.draft != nil {
		v.Dialog.Draft = c.draft.Clone()
		v.Dialog.Editor = EditorView{
			HTML:      c.editor.HTML(),
			Bold:      c.editor.IsActive(richtext.MarkBold),
			Italic:    c.editor.IsActive(richtext.MarkItalic),
			Underline: c.editor.IsActive(richtext.MarkUnderline),
			Link:      c.editor.ActiveLink(),
			CanFormat: c.editor.CanFormat(),
		}
	}
	return v
}

// View snapshots the whole dashboard.
func (d *Dashboard) View() DashboardView {
	projects := d.projects.View()

	d.mu.Lock()
	defer d.mu.Unlock()

	v := DashboardView{
		Loading:  d.loading,
		Error:    d.lastError,
		Tabs:     dashboardTabs,
		Projects: projects,
		Awards:   make([]domain.Award, len(d.awards)),
		Images:   make([]domain.ProjectImage, len(d.images)),
	}
	copy(v.Awards, d.awards)
	copy(v.Images, d.images)
	if v.Error == "" {
		v.Error = projects.Error
	}
	return v
}
