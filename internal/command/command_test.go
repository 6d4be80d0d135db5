package command

import (
	"strings"
	"testing"

	"github.com/skoolgrab/scanner/pkg/models"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		rec     models.VideoRecord
		windows bool
		want    string
	}{
		{
			name: "youtube posix",
			rec: models.VideoRecord{
				Provider: models.PlatformYouTube,
				URL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			},
			want: `yt-dlp -f "bestvideo[height<=1080]+bestaudio/best[height<=1080]" --merge-output-format mp4 -P ~/Desktop 'https://www.youtube.com/watch?v=dQw4w9WgXcQ'`,
		},
		{
			name: "youtube windows",
			rec: models.VideoRecord{
				Provider: models.PlatformYouTube,
				URL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			},
			windows: true,
			want:    `yt-dlp -f "bestvideo[height<=1080]+bestaudio/best[height<=1080]" --merge-output-format mp4 -P %USERPROFILE%\Desktop "https://www.youtube.com/watch?v=dQw4w9WgXcQ"`,
		},
		{
			name: "vimeo gets referer header",
			rec: models.VideoRecord{
				Provider: models.PlatformVimeo,
				URL:      "https://vimeo.com/76979871",
			},
			want: `yt-dlp --add-header "Referer: https://vimeo.com" -P ~/Desktop 'https://vimeo.com/76979871'`,
		},
		{
			name: "loom has no extra flags",
			rec: models.VideoRecord{
				Provider: models.PlatformLoom,
				URL:      "https://www.loom.com/share/abc123def456",
			},
			want: `yt-dlp -P ~/Desktop 'https://www.loom.com/share/abc123def456'`,
		},
		{
			name: "skool direct URL windows",
			rec: models.VideoRecord{
				Provider: models.PlatformSkool,
				URL:      "https://cdn.skool.com/uploads/video/lesson-final.mp4",
			},
			windows: true,
			want:    `yt-dlp -P %USERPROFILE%\Desktop "https://cdn.skool.com/uploads/video/lesson-final.mp4"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Build(tt.rec, tt.windows); got != tt.want {
				t.Errorf("Build =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

// The URL is always quoted so shell metacharacters in query strings are
// inert.
func TestBuild_AlwaysQuotes(t *testing.T) {
	rec := models.VideoRecord{
		Provider: models.PlatformWistia,
		URL:      "https://fast.wistia.net/embed/iframe/abc?x=1&y=2",
	}

	posix := Build(rec, false)
	if !strings.HasSuffix(posix, "'https://fast.wistia.net/embed/iframe/abc?x=1&y=2'") {
		t.Errorf("posix command not single-quoted: %s", posix)
	}

	win := Build(rec, true)
	if !strings.HasSuffix(win, `"https://fast.wistia.net/embed/iframe/abc?x=1&y=2"`) {
		t.Errorf("windows command not double-quoted: %s", win)
	}
}
