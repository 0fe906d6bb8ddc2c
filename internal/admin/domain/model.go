// Package domain holds the portfolio entities managed by the admin surface.
package domain

import (
	"fmt"
	"time"

	"github.com/studioform/portfolio-admin-backend/internal/recordstore"
)

type Project struct {
	ID           int64    `json:"id"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Content      string   `json:"content"`
	GridImage    string   `json:"grid_image"`
	MainImage    string   `json:"main_image"`
	DetailImage1 string   `json:"detail_image1"`
	DetailImage2 string   `json:"detail_image2"`
	Price        *float64 `json:"price"`
	Date         string   `json:"date"`
	Client       string   `json:"client"`
	Features     string   `json:"features"`
}

type Award struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	AwardName string `json:"award_name"`
	Year      int64  `json:"year"`
}

type ProjectImage struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	ImageURL  string `json:"image_url"`
	ImageType string `json:"image_type"`
}

func ProjectFromRecord(rec recordstore.Record) Project {
	return Project{
		ID:           asInt64(rec["id"]),
		Slug:         asString(rec["slug"]),
		Title:        asString(rec["title"]),
		Category:     asString(rec["category"]),
		Content:      asString(rec["content"]),
		GridImage:    asString(rec["grid_image"]),
		MainImage:    asString(rec["main_image"]),
		DetailImage1: asString(rec["detail_image1"]),
		DetailImage2: asString(rec["detail_image2"]),
		Price:        asFloatPtr(rec["price"]),
		Date:         asString(rec["date"]),
		Client:       asString(rec["client"]),
		Features:     asString(rec["features"]),
	}
}

func AwardFromRecord(rec recordstore.Record) Award {
	return Award{
		ID:        asInt64(rec["id"]),
		ProjectID: asInt64(rec["project_id"]),
		AwardName: asString(rec["award_name"]),
		Year:      asInt64(rec["year"]),
	}
}

func ProjectImageFromRecord(rec recordstore.Record) ProjectImage {
	return ProjectImage{
		ID:        asInt64(rec["id"]),
		ProjectID: asInt64(rec["project_id"]),
		ImageURL:  asString(rec["image_url"]),
		ImageType: asString(rec["image_type"]),
	}
}

// StringValue coerces a record field into its string form, matching how
// FromRecord decoders treat it.
func StringValue(v any) string { return asString(v) }

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		return s.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func asFloatPtr(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	}
	return nil
}
