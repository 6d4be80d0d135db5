package store

import (
	"context"
	"testing"
	"time"

	"github.com/skoolgrab/scanner/pkg/models"
)

func TestMemory_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first := models.ScanSnapshot{
		Generation: 1,
		PageURL:    "https://www.skool.com/g/classroom/a",
		Location:   models.LocationClassroom,
		Videos: []models.VideoRecord{
			{VideoID: "old", Provider: models.PlatformYouTube},
		},
		ScannedAt: time.Now(),
	}
	if err := m.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := first
	second.Generation = 2
	second.Videos = nil
	if err := m.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, found, err := m.Latest(ctx, first.PageURL)
	if err != nil || !found {
		t.Fatalf("Latest: found=%v err=%v", found, err)
	}
	if got.Generation != 2 {
		t.Errorf("generation = %d, want 2", got.Generation)
	}
	// An empty later pass replaces earlier videos, it does not merge.
	if got.Count() != 0 {
		t.Errorf("count = %d, want 0", got.Count())
	}
}

// A stored zero-video snapshot must still read back as "scanned".
func TestMemory_ZeroCountIsFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Save(ctx, models.ScanSnapshot{Generation: 1, PageURL: "https://www.skool.com/g/about"}); err != nil {
		t.Fatal(err)
	}

	_, found, err := m.Latest(ctx, "https://www.skool.com/g/about")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("empty snapshot not found, indistinguishable from never-scanned")
	}

	if _, found, _ := m.Latest(ctx, "https://www.skool.com/never-scanned"); found {
		t.Error("never-scanned page reported as found")
	}
}

func TestMemory_ApplyEnrichment(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	const pageURL = "https://www.skool.com/g/community/"

	if err := m.Save(ctx, models.ScanSnapshot{
		Generation: 3,
		PageURL:    pageURL,
		Videos: []models.VideoRecord{
			{VideoID: "abc", Provider: models.PlatformLoom},
		},
	}); err != nil {
		t.Fatal(err)
	}

	enriched := []models.VideoRecord{
		{VideoID: "abc", Provider: models.PlatformLoom, Title: "Demo Walkthrough"},
	}

	applied, err := m.ApplyEnrichment(ctx, pageURL, 3, enriched)
	if err != nil {
		t.Fatal(err)
	}
	if !applied {
		t.Fatal("matching generation not applied")
	}

	got, _, _ := m.Latest(ctx, pageURL)
	if got.Videos[0].Title != "Demo Walkthrough" {
		t.Errorf("title = %q", got.Videos[0].Title)
	}
}

// Enrichment computed against a superseded generation must be discarded.
func TestMemory_ApplyEnrichment_StaleGeneration(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	const pageURL = "https://www.skool.com/g/classroom/b"

	if err := m.Save(ctx, models.ScanSnapshot{
		Generation: 5,
		PageURL:    pageURL,
		Videos: []models.VideoRecord{
			{VideoID: "new", Provider: models.PlatformVimeo},
		},
	}); err != nil {
		t.Fatal(err)
	}

	stale := []models.VideoRecord{
		{VideoID: "old", Provider: models.PlatformVimeo, Title: "stale"},
	}
	applied, err := m.ApplyEnrichment(ctx, pageURL, 4, stale)
	if err != nil {
		t.Fatal(err)
	}
	if applied {
		t.Fatal("stale enrichment was applied")
	}

	got, _, _ := m.Latest(ctx, pageURL)
	if got.Videos[0].VideoID != "new" {
		t.Errorf("videos clobbered by stale enrichment: %+v", got.Videos)
	}
}

func TestMemory_ApplyEnrichment_UnknownPage(t *testing.T) {
	m := NewMemory()

	applied, err := m.ApplyEnrichment(context.Background(), "https://www.skool.com/nope", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if applied {
		t.Error("applied enrichment for a page that was never scanned")
	}
}
