package provider

import (
	"testing"

	"github.com/skoolgrab/scanner/pkg/models"
)

func TestYouTube_ExtractID(t *testing.T) {
	y := NewYouTube()

	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			name:   "watch URL",
			url:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "short URL",
			url:    "https://youtu.be/dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "embed URL",
			url:    "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "legacy v URL",
			url:    "https://www.youtube.com/v/dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "channel URL has no video ID",
			url:    "https://www.youtube.com/@somechannel",
			wantOK: false,
		},
		{
			name:   "foreign URL",
			url:    "https://vimeo.com/76979871",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := y.ExtractID(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

// Every supported URL shape for one video must normalize to the same
// canonical record.
func TestYouTube_CrossFormEquivalence(t *testing.T) {
	y := NewYouTube()

	forms := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/v/dQw4w9WgXcQ",
	}

	const wantURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	const wantThumb = "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"

	for _, form := range forms {
		id, ok := y.ExtractID(form)
		if !ok {
			t.Fatalf("ExtractID(%q) failed", form)
		}
		if got := y.CanonicalURL(id); got != wantURL {
			t.Errorf("CanonicalURL for %q = %q, want %q", form, got, wantURL)
		}
		if got := y.ThumbnailURL(id); got != wantThumb {
			t.Errorf("ThumbnailURL for %q = %q, want %q", form, got, wantThumb)
		}
	}
}

func TestLoom_ExtractID(t *testing.T) {
	l := NewLoom()

	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			name:   "share URL",
			url:    "https://www.loom.com/share/abc123def456",
			wantID: "abc123def456",
			wantOK: true,
		},
		{
			name:   "embed URL",
			url:    "https://www.loom.com/embed/abc123def456",
			wantID: "abc123def456",
			wantOK: true,
		},
		{
			name:   "record URL",
			url:    "https://www.loom.com/record/abc123def456",
			wantID: "abc123def456",
			wantOK: true,
		},
		{
			name:   "short s URL",
			url:    "https://loom.com/s/abc123def456",
			wantID: "abc123def456",
			wantOK: true,
		},
		{
			name:   "profile URL has no video ID",
			url:    "https://www.loom.com/looms/videos",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := l.ExtractID(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
		})
	}

	if got := l.CanonicalURL("abc123def456"); got != "https://www.loom.com/share/abc123def456" {
		t.Errorf("CanonicalURL = %q", got)
	}
	if got := l.ThumbnailURL("abc123def456"); got != "" {
		t.Errorf("ThumbnailURL = %q, want empty", got)
	}
}

func TestVimeo_ExtractID(t *testing.T) {
	v := NewVimeo()

	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			name:   "bare URL",
			url:    "https://vimeo.com/76979871",
			wantID: "76979871",
			wantOK: true,
		},
		{
			name:   "player URL",
			url:    "https://player.vimeo.com/video/76979871?h=abc",
			wantID: "76979871",
			wantOK: true,
		},
		{
			name:   "video path URL",
			url:    "https://vimeo.com/video/76979871",
			wantID: "76979871",
			wantOK: true,
		},
		{
			name:   "channel URL",
			url:    "https://vimeo.com/channels/staffpicks/76979871",
			wantID: "76979871",
			wantOK: true,
		},
		{
			name:   "group URL",
			url:    "https://vimeo.com/groups/shortfilms/videos/76979871",
			wantID: "76979871",
			wantOK: true,
		},
		{
			name:   "user profile has no video ID",
			url:    "https://vimeo.com/user12345678/about",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := v.ExtractID(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
		})
	}

	if got := v.CanonicalURL("76979871"); got != "https://vimeo.com/76979871" {
		t.Errorf("CanonicalURL = %q", got)
	}
	if got := v.ThumbnailURL("76979871"); got != "https://vumbnail.com/76979871.jpg" {
		t.Errorf("ThumbnailURL = %q", got)
	}
}

func TestWistia_ExtractID(t *testing.T) {
	w := NewWistia()

	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			name:   "medias URL",
			url:    "https://company.wistia.com/medias/abc123xy",
			wantID: "abc123xy",
			wantOK: true,
		},
		{
			name:   "fast embed iframe",
			url:    "https://fast.wistia.net/embed/iframe/abc123xy",
			wantID: "abc123xy",
			wantOK: true,
		},
		{
			name:   "embed without iframe segment",
			url:    "https://fast.wistia.com/embed/abc123xy",
			wantID: "abc123xy",
			wantOK: true,
		},
		{
			name:   "account root has no video ID",
			url:    "https://company.wistia.com/",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := w.ExtractID(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
		})
	}

	if got := w.CanonicalURL("abc123xy"); got != "https://fast.wistia.net/embed/iframe/abc123xy" {
		t.Errorf("CanonicalURL = %q", got)
	}
}

func TestSkool_ExtractID(t *testing.T) {
	s := NewSkool()

	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			name:   "video host URL",
			url:    "https://video.skool.com/xK9mPq2w",
			wantID: "xK9mPq2w",
			wantOK: true,
		},
		{
			name:   "storyboard track",
			url:    "https://video.skool.com/xK9mPq2w/storyboard.vtt",
			wantID: "xK9mPq2w",
			wantOK: true,
		},
		{
			name:   "cdn mp4 falls back to path segment",
			url:    "https://cdn.skool.com/uploads/video/lesson-final.mp4?token=xyz",
			wantID: "lesson-final.mp4",
			wantOK: true,
		},
		{
			name:   "foreign URL",
			url:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := s.ExtractID(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (id %q)", ok, tt.wantOK, id)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestSkool_StableIDRoundTrip(t *testing.T) {
	s := NewSkool()

	id, ok := s.ExtractID("https://video.skool.com/xK9mPq2w/storyboard.vtt")
	if !ok || id != "xK9mPq2w" {
		t.Fatalf("ExtractID = %q, %v", id, ok)
	}

	canonical := s.CanonicalURL(id)
	if canonical != "https://video.skool.com/xK9mPq2w" {
		t.Errorf("CanonicalURL = %q", canonical)
	}
	if !s.OwnsURL(canonical) {
		t.Error("provider does not own its own canonical URL")
	}

	again, ok := s.ExtractID(canonical)
	if !ok || again != id {
		t.Errorf("re-extract = %q, %v; want %q", again, ok, id)
	}

	if got := s.ThumbnailURL(id); got != "https://image.video.skool.com/xK9mPq2w/thumbnail.jpg" {
		t.Errorf("ThumbnailURL = %q", got)
	}
}

// Re-extracting the ID from a provider's own canonical URL must return the
// same ID, for every provider.
func TestCanonicalURLIdempotence(t *testing.T) {
	tests := []struct {
		provider Provider
		id       string
	}{
		{NewYouTube(), "dQw4w9WgXcQ"},
		{NewLoom(), "abc123def456"},
		{NewVimeo(), "76979871"},
		{NewWistia(), "abc123xy"},
		{NewSkool(), "xK9mPq2w"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider.Name()), func(t *testing.T) {
			canonical := tt.provider.CanonicalURL(tt.id)
			if !tt.provider.OwnsURL(canonical) {
				t.Fatalf("provider does not own its canonical URL %q", canonical)
			}
			id, ok := tt.provider.ExtractID(canonical)
			if !ok {
				t.Fatalf("ExtractID(%q) failed", canonical)
			}
			if id != tt.id {
				t.Errorf("id = %q, want %q", id, tt.id)
			}
		})
	}
}

// No two providers may claim the same canonical URL.
func TestOwnershipExclusivity(t *testing.T) {
	providers := []Provider{NewYouTube(), NewLoom(), NewVimeo(), NewWistia(), NewSkool()}

	urls := map[models.Platform]string{
		models.PlatformYouTube: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		models.PlatformLoom:    "https://www.loom.com/share/abc123def456",
		models.PlatformVimeo:   "https://vimeo.com/76979871",
		models.PlatformWistia:  "https://fast.wistia.net/embed/iframe/abc123xy",
		models.PlatformSkool:   "https://video.skool.com/xK9mPq2w",
	}

	for owner, url := range urls {
		var claimed []models.Platform
		for _, p := range providers {
			if p.OwnsURL(url) {
				claimed = append(claimed, p.Name())
			}
		}
		if len(claimed) != 1 || claimed[0] != owner {
			t.Errorf("url %q claimed by %v, want only %q", url, claimed, owner)
		}
	}
}

func TestNormalizePayload(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "escaped double quotes and slashes",
			input: `{\"videoUrl\":\"https:\/\/www.youtube.com\/watch?v=abc\"}`,
			want:  `{"videoUrl":"https://www.youtube.com/watch?v=abc"}`,
		},
		{
			name:  "escaped single quotes",
			input: `\'https://vimeo.com/123\'`,
			want:  `'https://vimeo.com/123'`,
		},
		{
			name:  "plain text untouched",
			input: `{"url":"https://youtu.be/abc"}`,
			want:  `{"url":"https://youtu.be/abc"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePayload(tt.input); got != tt.want {
				t.Errorf("normalizePayload = %q, want %q", got, tt.want)
			}
		})
	}
}
