package provider

import "regexp"

// YouTube
var (
	youtubeWatchPattern  = regexp.MustCompile(`youtube\.com/watch\?v=([a-zA-Z0-9_-]+)`)
	youtubeShortPattern  = regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`)
	youtubeEmbedPattern  = regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]+)`)
	youtubeLegacyPattern = regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]+)`)
	youtubeThumbPattern  = regexp.MustCompile(`ytimg\.com/vi/([a-zA-Z0-9_-]+)/`)

	youtubePatterns = []*regexp.Regexp{
		youtubeWatchPattern,
		youtubeShortPattern,
		youtubeEmbedPattern,
		youtubeLegacyPattern,
	}
)

// Loom
var (
	loomSharePattern  = regexp.MustCompile(`loom\.com/(?:share|embed)/([a-zA-Z0-9]+)`)
	loomRecordPattern = regexp.MustCompile(`loom\.com/(?:record|s)/([a-zA-Z0-9]+)`)

	loomPatterns = []*regexp.Regexp{
		loomSharePattern,
		loomRecordPattern,
	}
)

// Vimeo. Order matters: the bare numeric form must come last so it never
// shadows the more specific shapes.
var (
	vimeoPlayerPattern  = regexp.MustCompile(`player\.vimeo\.com/video/([0-9]+)`)
	vimeoVideoPattern   = regexp.MustCompile(`vimeo\.com/video/([0-9]+)`)
	vimeoChannelPattern = regexp.MustCompile(`vimeo\.com/channels/[^/]+/([0-9]+)`)
	vimeoGroupPattern   = regexp.MustCompile(`vimeo\.com/groups/[^/]+/videos/([0-9]+)`)
	vimeoBarePattern    = regexp.MustCompile(`vimeo\.com/([0-9]+)`)

	vimeoPatterns = []*regexp.Regexp{
		vimeoPlayerPattern,
		vimeoVideoPattern,
		vimeoChannelPattern,
		vimeoGroupPattern,
		vimeoBarePattern,
	}
)

// Wistia. Both .com and .net hosts occur in the wild.
var (
	wistiaMediasPattern = regexp.MustCompile(`wistia\.(?:com|net)/medias/([a-zA-Z0-9]+)`)
	wistiaEmbedPattern  = regexp.MustCompile(`wistia\.(?:com|net)/embed/(?:iframe/)?([a-zA-Z0-9]+)`)
	wistiaFastPattern   = regexp.MustCompile(`fast\.wistia\.(?:com|net)/embed/iframe/([a-zA-Z0-9]+)`)
	wistiaClassPattern  = regexp.MustCompile(`wistia_async_([a-zA-Z0-9]+)`)

	wistiaPatterns = []*regexp.Regexp{
		wistiaMediasPattern,
		wistiaEmbedPattern,
		wistiaFastPattern,
	}
)

// Skool native. The primary media URL is often an ephemeral blob reference;
// the stable ID lives in caption/storyboard side tracks.
var (
	skoolHostPattern       = regexp.MustCompile(`video\.skool\.com/([a-zA-Z0-9_-]+)`)
	skoolStoryboardPattern = regexp.MustCompile(`/([a-zA-Z0-9_-]+)/storyboard\.vtt`)
	skoolCDNPattern        = regexp.MustCompile(`(https://[^"'\s\\]*skool[^"'\s\\]*\.mp4)`)
	skoolVideoURLPattern   = regexp.MustCompile(`\\?["']videoUrl\\?["']\s*:\s*\\?["']([^"'\\]+\.mp4)\\?["']`)
)

// Escaped JSON payloads embedded in script text carry \" and \/ sequences
// that would otherwise defeat the URL patterns.
var payloadEscapeReplacer = regexp.MustCompile(`\\(["'/])`)

func normalizePayload(s string) string {
	return payloadEscapeReplacer.ReplaceAllString(s, "$1")
}
