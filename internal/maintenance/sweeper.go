// Package maintenance removes orphaned upload objects: binaries that were
// uploaded but whose URL no longer appears in any stored record.
package maintenance

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/studioform/portfolio-admin-backend/internal/objectstore"
	"github.com/studioform/portfolio-admin-backend/internal/recordstore"
)

// imageColumns are the project columns that may hold an upload URL. Content
// is included because rich text embeds image URLs inline.
var imageColumns = []string{"grid_image", "main_image", "detail_image1", "detail_image2", "content"}

type Sweeper struct {
	store   recordstore.Client
	objects objectstore.Store
	prefix  string
	grace   time.Duration
}

// NewSweeper keeps objects younger than grace even when unreferenced, so an
// in-flight draft does not lose its images.
func NewSweeper(store recordstore.Client, objects objectstore.Store, prefix string, grace time.Duration) *Sweeper {
	return &Sweeper{store: store, objects: objects, prefix: prefix, grace: grace}
}

// Start schedules the nightly sweep at 12:00AM.
func (s *Sweeper) Start() (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc("0 0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if n, err := s.Sweep(ctx); err != nil {
			log.Printf("upload sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("upload sweep removed %d orphaned objects", n)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// Sweep deletes unreferenced upload objects past the grace period and
// returns how many were removed. A delete failure is logged and skipped.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	haystack, err := s.referenced(ctx)
	if err != nil {
		return 0, err
	}

	objects, err := s.objects.List(ctx, s.prefix)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-s.grace)
	removed := 0
	for _, obj := range objects {
		if obj.LastModified.After(cutoff) {
			continue
		}
		if strings.Contains(haystack, s.objects.URL(obj.Key)) {
			continue
		}
		if err := s.objects.Delete(ctx, obj.Key); err != nil {
			log.Printf("delete orphan %s: %v", obj.Key, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// referenced concatenates every record field that may mention an upload URL,
// so membership is a substring check against one haystack.
func (s *Sweeper) referenced(ctx context.Context) (string, error) {
	var b strings.Builder

	projects, err := s.store.ListAll(ctx, recordstore.CollectionProjects)
	if err != nil {
		return "", err
	}
	for _, rec := range projects {
		for _, col := range imageColumns {
			if v, ok := rec[col].(string); ok && v != "" {
				b.WriteString(v)
				b.WriteByte('\n')
			}
		}
	}

	images, err := s.store.ListAll(ctx, recordstore.CollectionProjectImages)
	if err != nil {
		return "", err
	}
	for _, rec := range images {
		if v, ok := rec["image_url"].(string); ok && v != "" {
			b.WriteString(v)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
