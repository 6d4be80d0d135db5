package models

import "time"

// Platform identifies the video host a record was detected for.
type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformLoom    Platform = "loom"
	PlatformVimeo   Platform = "vimeo"
	PlatformWistia  Platform = "wistia"
	PlatformSkool   Platform = "skool"
)

// Location is the coarse page-type classification that drives detection
// strategy selection.
type Location string

const (
	LocationClassroom Location = "classroom"
	LocationCommunity Location = "community"
	LocationAbout     Location = "about"
	LocationUnknown   Location = "unknown"
)

// AllPlatforms returns every supported platform tag.
func AllPlatforms() []Platform {
	return []Platform{PlatformYouTube, PlatformLoom, PlatformVimeo, PlatformWistia, PlatformSkool}
}

// VideoRecord is a single detected video, normalized to the platform's
// canonical playback URL.
type VideoRecord struct {
	VideoID   string   `json:"video_id"`
	URL       string   `json:"url"`
	Title     string   `json:"title,omitempty"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Provider  Platform `json:"provider"`
	// Type mirrors Provider for older consumers and must always equal it.
	Type     Platform `json:"type"`
	Location Location `json:"location,omitempty"`
	Duration int      `json:"duration,omitempty"` // seconds, classroom metadata only
}

// ScanSnapshot is the full-replacement result of one detection pass.
// Consumers must treat it as a snapshot, never as an incremental feed.
type ScanSnapshot struct {
	Generation uint64        `json:"generation"`
	PageURL    string        `json:"page_url"`
	Location   Location      `json:"location"`
	Videos     []VideoRecord `json:"videos"`
	ScannedAt  time.Time     `json:"scanned_at"`
}

// Count reports how many videos the pass found. A stored snapshot with
// Count zero is distinguishable from a page that was never scanned.
func (s ScanSnapshot) Count() int {
	return len(s.Videos)
}
