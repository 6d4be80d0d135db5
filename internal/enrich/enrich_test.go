package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skoolgrab/scanner/pkg/models"
)

func TestEnrich_LoomTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/share/abc123def456" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`<html><head><meta property="og:title" content="Demo Walkthrough"></head></html>`))
	}))
	defer srv.Close()

	e := New(5 * time.Second)
	e.loomBase = srv.URL

	records := []models.VideoRecord{
		{VideoID: "abc123def456", Provider: models.PlatformLoom},
	}
	out := e.Enrich(context.Background(), records)

	if out[0].Title != "Demo Walkthrough" {
		t.Errorf("title = %q", out[0].Title)
	}
	// Input records are never mutated.
	if records[0].Title != "" {
		t.Errorf("input mutated: %q", records[0].Title)
	}
}

func TestEnrich_LoomKeepsExistingTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("fetched despite existing title")
	}))
	defer srv.Close()

	e := New(5 * time.Second)
	e.loomBase = srv.URL

	out := e.Enrich(context.Background(), []models.VideoRecord{
		{VideoID: "abc", Provider: models.PlatformLoom, Title: "already set"},
	})

	if out[0].Title != "already set" {
		t.Errorf("title = %q", out[0].Title)
	}
}

func TestEnrich_WistiaThumbnail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oembed" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"type":"video","thumbnail_url":"https://embed-ssl.wistia.com/deliveries/deadbeef.jpg"}`))
	}))
	defer srv.Close()

	e := New(5 * time.Second)
	e.oembedBase = srv.URL

	out := e.Enrich(context.Background(), []models.VideoRecord{
		{VideoID: "abc123xy", Provider: models.PlatformWistia},
	})

	if out[0].Thumbnail != "https://embed-ssl.wistia.com/deliveries/deadbeef.jpg" {
		t.Errorf("thumbnail = %q", out[0].Thumbnail)
	}
}

// Failures leave the record exactly as detected.
func TestEnrich_FailureLeavesRecordUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := New(5 * time.Second)
	e.loomBase = srv.URL
	e.oembedBase = srv.URL

	in := []models.VideoRecord{
		{VideoID: "abc", Provider: models.PlatformLoom},
		{VideoID: "def", Provider: models.PlatformWistia},
	}
	out := e.Enrich(context.Background(), in)

	if out[0].Title != "" || out[1].Thumbnail != "" {
		t.Errorf("failed enrichment altered records: %+v", out)
	}
}

func TestEnrich_SkipsOtherPlatforms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected fetch for non-enrichable platform")
	}))
	defer srv.Close()

	e := New(5 * time.Second)
	e.loomBase = srv.URL
	e.oembedBase = srv.URL

	out := e.Enrich(context.Background(), []models.VideoRecord{
		{VideoID: "dQw4w9WgXcQ", Provider: models.PlatformYouTube},
		{VideoID: "76979871", Provider: models.PlatformVimeo, Thumbnail: "https://vumbnail.com/76979871.jpg"},
	})

	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
}

func TestEnrich_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<meta property="og:title" content="late">`))
	}))
	defer srv.Close()

	e := New(5 * time.Second)
	e.loomBase = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := e.Enrich(ctx, []models.VideoRecord{
		{VideoID: "abc", Provider: models.PlatformLoom},
	})

	if out[0].Title != "" {
		t.Errorf("title = %q, want untouched on cancelled context", out[0].Title)
	}
}
