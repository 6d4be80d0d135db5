package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/skoolgrab/scanner/internal/store"
	"github.com/skoolgrab/scanner/pkg/queue"
)

type stubSignalPublisher struct {
	signals []queue.RescanSignal
	err     error
}

func (s *stubSignalPublisher) PublishRescanSignal(_ context.Context, signal any) error {
	if s.err != nil {
		return s.err
	}
	s.signals = append(s.signals, *signal.(*queue.RescanSignal))
	return nil
}

func newTestApp(signals SignalPublisher) *fiber.App {
	app := fiber.New()
	NewHandler(nil, store.NewMemory(), signals).SetupRoutes(app)
	return app
}

func TestHandleSignal_Queues(t *testing.T) {
	pub := &stubSignalPublisher{}
	app := newTestApp(pub)

	body := `{"url":"https://www.skool.com/my-group","kind":"mutation","markup":"<iframe src=\"https://vimeo.com/76979871\"></iframe>"}`
	req := httptest.NewRequest("POST", "/api/signal", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 202 {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	if len(pub.signals) != 1 {
		t.Fatalf("published %d signals, want 1", len(pub.signals))
	}
	sig := pub.signals[0]
	if sig.PageURL != "https://www.skool.com/my-group" {
		t.Errorf("signal page = %q", sig.PageURL)
	}
	if sig.Kind != "mutation" {
		t.Errorf("signal kind = %q, want mutation", sig.Kind)
	}
	if !strings.Contains(sig.Markup, "vimeo.com") {
		t.Errorf("signal markup = %q", sig.Markup)
	}
	if sig.SentAt.IsZero() {
		t.Error("signal has no timestamp")
	}
}

func TestHandleSignal_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing url", `{"kind":"play"}`},
		{"missing kind", `{"url":"https://www.skool.com/my-group"}`},
		{"malformed body", `{"url":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &stubSignalPublisher{}
			app := newTestApp(pub)

			req := httptest.NewRequest("POST", "/api/signal", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != 400 {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if len(pub.signals) != 0 {
				t.Errorf("published %d signals, want 0", len(pub.signals))
			}
		})
	}
}

func TestHandleVideos_NotScanned(t *testing.T) {
	app := newTestApp(&stubSignalPublisher{})

	req := httptest.NewRequest("GET", "/api/videos?url=https%3A%2F%2Fwww.skool.com%2Funknown", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "page not scanned" {
		t.Errorf("error = %q", body["error"])
	}
}
