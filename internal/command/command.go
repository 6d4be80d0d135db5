package command

import (
	"fmt"

	"github.com/skoolgrab/scanner/pkg/models"
)

// Build renders the yt-dlp invocation for a detected video. The flags are
// keyed strictly off the record's provider tag so the mapping stays
// deterministic for every consumer.
func Build(rec models.VideoRecord, windows bool) string {
	basePath := "-P ~/Desktop"
	quote := "'"
	if windows {
		basePath = `-P %USERPROFILE%\Desktop`
		quote = `"`
	}

	var flags string
	switch rec.Provider {
	case models.PlatformYouTube:
		// Cap at 1080p with merged audio.
		flags = `-f "bestvideo[height<=1080]+bestaudio/best[height<=1080]" --merge-output-format mp4 `
	case models.PlatformVimeo:
		// Vimeo rejects unauthenticated player requests without a referer.
		flags = `--add-header "Referer: https://vimeo.com" `
	}

	return fmt.Sprintf("yt-dlp %s%s %s%s%s", flags, basePath, quote, rec.URL, quote)
}
