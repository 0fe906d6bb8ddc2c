// Package controller holds the per-entity admin state machines. Each
// controller exclusively owns its in-memory list and the current draft;
// nothing here touches the network except through the injected clients.
package controller

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/studioform/portfolio-admin-backend/internal/admin/domain"
	"github.com/studioform/portfolio-admin-backend/internal/objectstore"
	"github.com/studioform/portfolio-admin-backend/internal/recordstore"
	"github.com/studioform/portfolio-admin-backend/internal/richtext"
)

// Mode is the dialog state of a controller.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCreating
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "idle"
	}
}

// ProjectController drives the project CRUD dialog. State moves
// Idle -> Creating|Editing -> Idle; the dialog is open exactly when a draft
// exists, never toggled independently.
type ProjectController struct {
	mu      sync.Mutex
	store   recordstore.Client
	objects objectstore.Store
	editor  *richtext.Editor
	prefix  string

	records  []recordstore.Record
	projects []domain.Project

	mode    Mode
	draft   recordstore.Record
	draftID any

	loading   bool
	lastError string
}

func NewProjectController(store recordstore.Client, objects objectstore.Store, uploadPrefix string) *ProjectController {
	c := &ProjectController{
		store:   store,
		objects: objects,
		editor:  richtext.NewEditor(),
		prefix:  uploadPrefix,
	}

	// The authoring surface is a pure emitter; its ContentChanged events are
	// reduced into the active draft here and nowhere else.
	c.editor.OnUpdate(func(ev richtext.ContentChanged) {
		if c.mode != ModeIdle {
			c.draft["content"] = ev.HTML
		}
	})
	return c
}

// Load fetches the full project list. On failure the previous list is kept
// and the error surfaced.
func (c *ProjectController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	recs, err := c.store.ListAll(ctx, recordstore.CollectionProjects, recordstore.Order{Field: "title"})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.lastError = err.Error()
		return err
	}

	c.records = recs
	c.projects = c.projects[:0]
	for _, rec := range recs {
		c.projects = append(c.projects, domain.ProjectFromRecord(rec))
	}
	c.lastError = ""
	return nil
}

// AddRequested opens the create dialog with an empty draft.
func (c *ProjectController) AddRequested() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mode = ModeCreating
	c.draft = recordstore.Record{}
	c.draftID = nil
	if err := c.editor.SetContent(""); err != nil {
		log.Printf("reset editor: %v", err)
	}
}

// EditRequested opens the edit dialog with a full copy of the selected
// record. The authoring surface is explicitly reset to the draft's content;
// it never syncs on its own.
func (c *ProjectController) EditRequested(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rec := range c.records {
		p := domain.ProjectFromRecord(rec)
		if p.ID != id {
			continue
		}
		draft := rec.Clone()
		delete(draft, "id")
		c.mode = ModeEditing
		c.draft = draft
		c.draftID = rec["id"]
		if err := c.editor.SetContent(p.Content); err != nil {
			return err
		}
		return nil
	}
	return recordstore.NewError(recordstore.KindNotFound, "project %d not in list", id)
}

// FieldChanged shallow-merges one field into the draft. It has no effect
// unless a dialog is open, and nothing is persisted until Submit.
func (c *ProjectController) FieldChanged(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeIdle {
		return
	}
	c.draft[name] = value
	if name == "content" {
		if err := c.editor.SetContent(domain.StringValue(value)); err != nil {
			log.Printf("reset editor: %v", err)
		}
	}
}

// Submit persists the draft: insert when creating, full-row update when
// editing. Success re-fetches the list and closes the dialog; failure leaves
// state and draft untouched.
func (c *ProjectController) Submit(ctx context.Context) error {
	c.mu.Lock()
	mode := c.mode
	var draft recordstore.Record
	if c.draft != nil {
		draft = c.draft.Clone()
	}
	id := c.draftID
	c.mu.Unlock()

	var err error
	switch mode {
	case ModeCreating:
		_, err = c.store.Insert(ctx, recordstore.CollectionProjects, draft)
	case ModeEditing:
		_, err = c.store.Update(ctx, recordstore.CollectionProjects, id, draft)
	default:
		return recordstore.NewError(recordstore.KindInvalid, "no draft to submit")
	}

	if err != nil {
		c.mu.Lock()
		c.lastError = err.Error()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.mode = ModeIdle
	c.draft = nil
	c.draftID = nil
	c.mu.Unlock()

	if err := c.Load(ctx); err != nil {
		log.Printf("re-fetch projects: %v", err)
	}
	return nil
}

// Cancel discards the draft without persisting anything.
func (c *ProjectController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mode = ModeIdle
	c.draft = nil
	c.draftID = nil
}

// DeleteRequested removes a project by id, independent of dialog state. On
// success the list is re-fetched; on failure it is left unchanged.
func (c *ProjectController) DeleteRequested(ctx context.Context, id int64) error {
	if err := c.store.DeleteByID(ctx, recordstore.CollectionProjects, id); err != nil {
		c.mu.Lock()
		c.lastError = err.Error()
		c.mu.Unlock()
		return err
	}

	if err := c.Load(ctx); err != nil {
		log.Printf("re-fetch projects: %v", err)
	}
	return nil
}

// UploadImage stores an image binary under a uniquified name and inserts its
// public URL at the editor cursor. On failure nothing is inserted.
func (c *ProjectController) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()
	if mode == ModeIdle {
		return "", recordstore.NewError(recordstore.KindInvalid, "no draft open")
	}

	// The object store overwrites colliding names silently, so uniquify here.
	key := fmt.Sprintf("%s%d-%s", c.prefix, time.Now().UnixMilli(), filename)
	url, err := c.objects.Upload(ctx, key, bytes.NewReader(data), http.DetectContentType(data))
	if err != nil {
		c.mu.Lock()
		c.lastError = err.Error()
		c.mu.Unlock()
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.editor.InsertImage(url)
	return url, nil
}

// EditorCommand applies one formatting command to the authoring surface.
func (c *ProjectController) EditorCommand(name string, level int, text, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeIdle {
		return recordstore.NewError(recordstore.KindInvalid, "no draft open")
	}

	switch name {
	case "bold":
		c.editor.ToggleBold()
	case "italic":
		c.editor.ToggleItalic()
	case "underline":
		c.editor.ToggleUnderline()
	case "bulletList":
		c.editor.ToggleBulletList()
	case "orderedList":
		c.editor.ToggleOrderedList()
	case "heading":
		if level < 1 || level > 6 {
			return recordstore.NewError(recordstore.KindInvalid, "heading level %d out of range", level)
		}
		c.editor.ToggleHeading(level)
	case "selectAll":
		c.editor.SelectAll()
	case "insertText":
		c.editor.InsertText(text)
	case "insertImage":
		c.editor.InsertImage(url)
	case "setLink":
		c.editor.SetLink(url)
	case "unsetLink":
		c.editor.UnsetLink()
	case "youtube":
		src := richtext.YouTubeEmbedURL(url)
		if src == "" {
			return recordstore.NewError(recordstore.KindInvalid, "unrecognized video url %q", url)
		}
		c.editor.InsertEmbed(src)
	default:
		return recordstore.NewError(recordstore.KindInvalid, "unknown editor command %q", name)
	}
	return nil
}

// Projects returns the current list.
func (c *ProjectController) Projects() []domain.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// Mode returns the current dialog state.
func (c *ProjectController) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Draft returns a copy of the current draft, or nil when no dialog is open.
func (c *ProjectController) Draft() recordstore.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return nil
	}
	return c.draft.Clone()
}
