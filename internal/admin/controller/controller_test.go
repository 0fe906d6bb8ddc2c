package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioform/portfolio-admin-backend/internal/objectstore"
	"github.com/studioform/portfolio-admin-backend/internal/recordstore"
)

func setupProjects(t *testing.T) (*ProjectController, *recordstore.Memory, *objectstore.Memory) {
	t.Helper()
	store := recordstore.NewMemory()
	objects := objectstore.NewMemory()
	c := NewProjectController(store, objects, "uploads/")
	return c, store, objects
}

func seedProject(store *recordstore.Memory, title string) {
	store.Seed(recordstore.CollectionProjects, recordstore.Record{
		"slug":    title,
		"title":   title,
		"content": "<p>" + title + "</p>",
		"client":  "Acme",
	})
}

func TestCreateFlow(t *testing.T) {
	ctx := context.Background()
	c, _, _ := setupProjects(t)
	require.NoError(t, c.Load(ctx))

	c.AddRequested()
	assert.Equal(t, ModeCreating, c.Mode())

	c.FieldChanged("title", "Villa")
	c.FieldChanged("slug", "villa")
	c.EditorCommand("insertText", 0, "A quiet house", "")
	require.NoError(t, c.Submit(ctx))

	assert.Equal(t, ModeIdle, c.Mode())
	assert.Nil(t, c.Draft())

	rows := c.Projects()
	require.Len(t, rows, 1)
	assert.Equal(t, "Villa", rows[0].Title)
	assert.Equal(t, "<p>A quiet house</p>", rows[0].Content)
}

func TestEditFlowIsFullRowReplace(t *testing.T) {
	ctx := context.Background()
	c, store, _ := setupProjects(t)
	seedProject(store, "Tower")
	require.NoError(t, c.Load(ctx))
	id := c.Projects()[0].ID

	require.NoError(t, c.EditRequested(id))
	assert.Equal(t, ModeEditing, c.Mode())

	// The draft is a full copy; untouched fields survive the update.
	draft := c.Draft()
	assert.Equal(t, "Acme", draft["client"])

	c.FieldChanged("title", "Tower II")
	require.NoError(t, c.Submit(ctx))

	rows := c.Projects()
	require.Len(t, rows, 1)
	assert.Equal(t, "Tower II", rows[0].Title)
	assert.Equal(t, "Acme", rows[0].Client)
}

func TestEditResetsAuthoringSurface(t *testing.T) {
	ctx := context.Background()
	c, store, _ := setupProjects(t)
	seedProject(store, "One")
	seedProject(store, "Two")
	require.NoError(t, c.Load(ctx))
	rows := c.Projects()

	require.NoError(t, c.EditRequested(rows[0].ID))
	c.EditorCommand("insertText", 0, " extra", "")
	c.Cancel()

	// Opening another record swaps the surface content wholesale; nothing
	// from the previous draft bleeds through.
	require.NoError(t, c.EditRequested(rows[1].ID))
	v := c.View()
	assert.Equal(t, "<p>Two</p>", v.Dialog.Editor.HTML)
	assert.Equal(t, "<p>Two</p>", c.Draft()["content"])
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	c, store, _ := setupProjects(t)
	require.NoError(t, c.Load(ctx))

	c.AddRequested()
	c.FieldChanged("title", "Villa")

	store.FailNext(recordstore.NewError(recordstore.KindTransient, "connection reset"))
	err := c.Submit(ctx)
	require.Error(t, err)

	// Dialog stays open with the draft intact so nothing typed is lost.
	assert.Equal(t, ModeCreating, c.Mode())
	assert.Equal(t, "Villa", c.Draft()["title"])
	assert.Empty(t, c.Projects())

	// A retry without changes succeeds.
	require.NoError(t, c.Submit(ctx))
	assert.Equal(t, ModeIdle, c.Mode())
	require.Len(t, c.Projects(), 1)
}

func TestCancelDiscardsDraft(t *testing.T) {
	ctx := context.Background()
	c, store, _ := setupProjects(t)
	seedProject(store, "Tower")
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.EditRequested(c.Projects()[0].ID))
	c.FieldChanged("title", "Changed")
	c.Cancel()

	assert.Equal(t, ModeIdle, c.Mode())
	assert.Nil(t, c.Draft())
	assert.Equal(t, "Tower", c.Projects()[0].Title)
}

func TestFieldChangedIgnoredWhileIdle(t *testing.T) {
	c, _, _ := setupProjects(t)
	c.FieldChanged("title", "ghost")
	assert.Nil(t, c.Draft())
}

func TestDeleteRequested(t *testing.T) {
	ctx := context.Background()
	c, store, _ := setupProjects(t)
	seedProject(store, "Tower")
	require.NoError(t, c.Load(ctx))
	id := c.Projects()[0].ID

	require.NoError(t, c.DeleteRequested(ctx, id))
	assert.Empty(t, c.Projects())

	t.Run("failure keeps the list", func(t *testing.T) {
		seedProject(store, "Kept")
		require.NoError(t, c.Load(ctx))

		store.FailNext(recordstore.NewError(recordstore.KindTransient, "connection reset"))
		err := c.DeleteRequested(ctx, c.Projects()[0].ID)
		require.Error(t, err)
		assert.Len(t, c.Projects(), 1)
		assert.NotEmpty(t, c.View().Error)
	})
}

func TestLoadFailureKeepsPreviousList(t *testing.T) {
	ctx := context.Background()
	c, store, _ := setupProjects(t)
	seedProject(store, "Tower")
	require.NoError(t, c.Load(ctx))

	store.FailNext(recordstore.NewError(recordstore.KindTransient, "connection reset"))
	require.Error(t, c.Load(ctx))

	assert.Len(t, c.Projects(), 1)
	assert.NotEmpty(t, c.View().Error)

	// Next successful fetch clears the banner.
	require.NoError(t, c.Load(ctx))
	assert.Empty(t, c.View().Error)
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	c, _, objects := setupProjects(t)

	t.Run("requires an open dialog", func(t *testing.T) {
		_, err := c.UploadImage(ctx, "a.png", []byte("png"))
		require.Error(t, err)
	})

	c.AddRequested()
	c.EditorCommand("insertText", 0, "Hello", "")

	url, err := c.UploadImage(ctx, "a.png", []byte("pngdata"))
	require.NoError(t, err)
	assert.Contains(t, url, "https://storage.test/uploads/")
	assert.Contains(t, url, "-a.png")

	// The URL lands at the cursor and flows into the draft content.
	content := c.Draft()["content"].(string)
	assert.Contains(t, content, `<img src="`+url+`">`)

	t.Run("failed upload inserts nothing", func(t *testing.T) {
		before := c.Draft()["content"]
		objects.FailNext(assert.AnError)
		_, err := c.UploadImage(ctx, "b.png", []byte("pngdata"))
		require.Error(t, err)
		assert.Equal(t, before, c.Draft()["content"])
	})
}

func TestLoadOrdersByTitle(t *testing.T) {
	ctx := context.Background()
	c, store, _ := setupProjects(t)
	seedProject(store, "Zeta")
	seedProject(store, "Alpha")
	require.NoError(t, c.Load(ctx))

	rows := c.Projects()
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0].Title)
	assert.Equal(t, "Zeta", rows[1].Title)
}

func TestEditorCommandRejectsUnknown(t *testing.T) {
	c, _, _ := setupProjects(t)
	c.AddRequested()
	require.Error(t, c.EditorCommand("blink", 0, "", ""))
}

func TestEditorCommandRejectsBadHeadingLevel(t *testing.T) {
	c, _, _ := setupProjects(t)
	c.AddRequested()
	c.EditorCommand("insertText", 0, "Process", "")

	err := c.EditorCommand("heading", 9, "", "")
	require.Error(t, err)
	assert.Equal(t, recordstore.KindInvalid, recordstore.KindOf(err))
	assert.Equal(t, "<p>Process</p>", c.Draft()["content"])

	require.NoError(t, c.EditorCommand("heading", 2, "", ""))
	assert.Equal(t, "<h2>Process</h2>", c.Draft()["content"])
}

func TestEditorCommandLink(t *testing.T) {
	c, _, _ := setupProjects(t)
	c.AddRequested()
	c.EditorCommand("insertText", 0, "read the docs", "")
	c.EditorCommand("selectAll", 0, "", "")

	require.NoError(t, c.EditorCommand("setLink", 0, "", "https://x.test/docs"))
	assert.Equal(t, `<p><a href="https://x.test/docs">read the docs</a></p>`, c.Draft()["content"])
	assert.Equal(t, "https://x.test/docs", c.View().Dialog.Editor.Link)

	require.NoError(t, c.EditorCommand("unsetLink", 0, "", ""))
	assert.Equal(t, "<p>read the docs</p>", c.Draft()["content"])
	assert.Empty(t, c.View().Dialog.Editor.Link)
}

func TestEditorCommandYoutube(t *testing.T) {
	c, _, _ := setupProjects(t)
	c.AddRequested()
	c.EditorCommand("insertText", 0, "watch", "")

	t.Run("unrecognized url is rejected", func(t *testing.T) {
		err := c.EditorCommand("youtube", 0, "", "https://vimeo.com/12345")
		require.Error(t, err)
		assert.Equal(t, recordstore.KindInvalid, recordstore.KindOf(err))
		assert.Equal(t, "<p>watch</p>", c.Draft()["content"])
	})

	require.NoError(t, c.EditorCommand("youtube", 0, "", "https://www.youtube.com/watch?v=abc123"))
	assert.Equal(t, `<p>watch</p><iframe src="https://www.youtube.com/embed/abc123"></iframe><p></p>`, c.Draft()["content"])
}

func TestViewDialogOpenTracksMode(t *testing.T) {
	c, _, _ := setupProjects(t)

	assert.False(t, c.View().Dialog.Open)
	assert.Equal(t, "idle", c.View().Dialog.Mode)

	c.AddRequested()
	v := c.View()
	assert.True(t, v.Dialog.Open)
	assert.Equal(t, "creating", v.Dialog.Mode)
	assert.NotNil(t, v.Dialog.Draft)

	c.Cancel()
	assert.False(t, c.View().Dialog.Open)
}

type fakeSessions struct{ ended []string }

func (f *fakeSessions) SignOut(ctx context.Context, token string) error {
	f.ended = append(f.ended, token)
	return nil
}

func setupDashboard(t *testing.T) (*Dashboard, *recordstore.Memory, *fakeSessions) {
	t.Helper()
	store := recordstore.NewMemory()
	sessions := &fakeSessions{}
	projects := NewProjectController(store, objectstore.NewMemory(), "uploads/")
	return NewDashboard(store, sessions, projects), store, sessions
}

func TestDashboardFetchAll(t *testing.T) {
	ctx := context.Background()
	d, store, _ := setupDashboard(t)
	seedProject(store, "Tower")
	store.Seed(recordstore.CollectionAwards, recordstore.Record{"project_id": int64(1), "award_name": "Red Dot", "year": int64(2024)})
	store.Seed(recordstore.CollectionProjectImages, recordstore.Record{"project_id": int64(1), "image_url": "https://cdn.test/a.png", "image_type": "grid"})

	require.NoError(t, d.FetchAll(ctx))

	v := d.View()
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
	assert.Equal(t, []string{"projects", "awards", "images"}, v.Tabs)
	require.Len(t, v.Awards, 1)
	assert.Equal(t, "Red Dot", v.Awards[0].AwardName)
	require.Len(t, v.Images, 1)
	assert.Equal(t, "grid", v.Images[0].ImageType)
	require.Len(t, v.Projects.Rows, 1)
}

func TestDashboardFetchFailureKeepsLists(t *testing.T) {
	ctx := context.Background()
	d, store, _ := setupDashboard(t)
	store.Seed(recordstore.CollectionAwards, recordstore.Record{"project_id": int64(1), "award_name": "Red Dot", "year": int64(2024)})
	require.NoError(t, d.FetchAll(ctx))

	store.FailNext(recordstore.NewError(recordstore.KindTransient, "connection reset"))
	require.Error(t, d.FetchAll(ctx))

	v := d.View()
	assert.NotEmpty(t, v.Error)
	assert.Len(t, v.Awards, 1)
}

func TestDashboardEnsureLoadedRunsOnce(t *testing.T) {
	ctx := context.Background()
	d, store, _ := setupDashboard(t)
	require.NoError(t, d.EnsureLoaded(ctx))

	// Later calls must not re-fetch.
	store.FailNext(recordstore.NewError(recordstore.KindTransient, "connection reset"))
	require.NoError(t, d.EnsureLoaded(ctx))
}

func TestDashboardLogout(t *testing.T) {
	d, _, sessions := setupDashboard(t)
	require.NoError(t, d.Logout(context.Background(), "tok-1"))
	assert.Equal(t, []string{"tok-1"}, sessions.ended)
}
