package controller

import (
	"context"
	"sync"

	"github.com/studioform/portfolio-admin-backend/internal/admin/domain"
	"github.com/studioform/portfolio-admin-backend/internal/recordstore"
)

// SessionEnder tears down a server-side session.
type SessionEnder interface {
	SignOut(ctx context.Context, token string) error
}

// Dashboard aggregates the admin tabs: the project controller plus the
// read-only award and image listings.
type Dashboard struct {
	mu       sync.Mutex
	store    recordstore.Client
	sessions SessionEnder
	projects *ProjectController

	awards []domain.Award
	images []domain.ProjectImage

	loading   bool
	lastError string
	fetched   bool
}

func NewDashboard(store recordstore.Client, sessions SessionEnder, projects *ProjectController) *Dashboard {
	return &Dashboard{
		store:    store,
		sessions: sessions,
		projects: projects,
	}
}

// Projects exposes the project tab's controller.
func (d *Dashboard) Projects() *ProjectController { return d.projects }

// FetchAll loads every tab's data. Any failure keeps the previously loaded
// lists and raises the error banner; a later success clears it.
func (d *Dashboard) FetchAll(ctx context.Context) error {
	d.mu.Lock()
	d.loading = true
	d.fetched = true
	d.mu.Unlock()

	err := d.projects.Load(ctx)

	awardRecs, aerr := d.store.ListAll(ctx, recordstore.CollectionAwards)
	if err == nil {
		err = aerr
	}
	imageRecs, ierr := d.store.ListAll(ctx, recordstore.CollectionProjectImages)
	if err == nil {
		err = ierr
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false

	if aerr == nil {
		d.awards = d.awards[:0]
		for _, rec := range awardRecs {
			d.awards = append(d.awards, domain.AwardFromRecord(rec))
		}
	}
	if ierr == nil {
		d.images = d.images[:0]
		for _, rec := range imageRecs {
			d.images = append(d.images, domain.ProjectImageFromRecord(rec))
		}
	}

	if err != nil {
		d.lastError = err.Error()
		return err
	}
	d.lastError = ""
	return nil
}

// EnsureLoaded runs the initial fetch exactly once; later calls are no-ops.
func (d *Dashboard) EnsureLoaded(ctx context.Context) error {
	d.mu.Lock()
	done := d.fetched
	d.mu.Unlock()
	if done {
		return nil
	}
	return d.FetchAll(ctx)
}

// Awards returns the current award list.
func (d *Dashboard) Awards() []domain.Award {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Award, len(d.awards))
	copy(out, d.awards)
	return out
}

// Images returns the current project image list.
func (d *Dashboard) Images() []domain.ProjectImage {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.ProjectImage, len(d.images))
	copy(out, d.images)
	return out
}

// Logout ends the given session.
func (d *Dashboard) Logout(ctx context.Context, token string) error {
	return d.sessions.SignOut(ctx, token)
}
