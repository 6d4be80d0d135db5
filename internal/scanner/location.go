package scanner

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skoolgrab/scanner/pkg/models"
)

// DOM markers consulted only when the URL shape decides nothing.
const (
	classroomMarkerSelector = `.video-player, .lesson-video, [class*="classroom"]`
	communityMarkerSelector = `.post-content, .community-post, [class*="post"]`
)

// Classify maps the current page to a location kind. URL-based rules run
// before DOM-based ones: they are cheaper and more reliable. The
// two-segment fallback (rule 4) matches the host's short "group/post-title"
// URLs and is a known loose heuristic; keep it as-is.
func Classify(pageURL string, doc *goquery.Document) models.Location {
	if u, err := url.Parse(pageURL); err == nil {
		path := u.Path

		if strings.Contains(path, "/classroom/") || u.Query().Has("md") {
			return models.LocationClassroom
		}
		if strings.Contains(path, "/community/") || strings.Contains(path, "/posts/") {
			return models.LocationCommunity
		}
		if strings.HasSuffix(strings.TrimSuffix(path, "/"), "/about") {
			return models.LocationAbout
		}
		if len(pathSegments(path)) == 2 {
			return models.LocationCommunity
		}
	}

	if doc != nil {
		if doc.Find(classroomMarkerSelector).Length() > 0 {
			return models.LocationClassroom
		}
		if doc.Find(communityMarkerSelector).Length() > 0 {
			return models.LocationCommunity
		}
	}

	return models.LocationUnknown
}

func pathSegments(path string) []string {
	var segs []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			segs = append(segs, part)
		}
	}
	return segs
}
