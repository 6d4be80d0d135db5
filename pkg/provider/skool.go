package provider

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skoolgrab/scanner/pkg/models"
)

// Skool serves native video from CDN/blob URLs with no stable public ID.
// The storyboard/caption side tracks carry a stable ID even when the media
// src is an ephemeral blob reference, so those are the preferred identity
// source; direct CDN URLs fall back to their final path segment.
type Skool struct{}

func NewSkool() *Skool {
	return &Skool{}
}

var skoolStablePatterns = []*regexp.Regexp{
	skoolHostPattern,
	skoolStoryboardPattern,
}

func (s *Skool) Name() models.Platform {
	return models.PlatformSkool
}

func (s *Skool) OwnsURL(u string) bool {
	if strings.Contains(u, "video.skool.com") {
		return true
	}
	return strings.Contains(u, "skool.com") &&
		(strings.Contains(u, "/video/") || strings.Contains(u, ".mp4") || strings.Contains(u, "cdn"))
}

func (s *Skool) ExtractID(u string) (string, bool) {
	if id, ok := firstMatch(skoolStablePatterns, u); ok {
		return id, true
	}
	if !s.OwnsURL(u) {
		return "", false
	}
	if seg := lastPathSegment(u); seg != "" {
		return seg, true
	}
	return "", false
}

func (s *Skool) CanonicalURL(id string) string {
	return "https://video.skool.com/" + id
}

func (s *Skool) ThumbnailURL(id string) string {
	// Only holds for IDs taken from the stable track scheme; callers on the
	// direct-CDN path leave the thumbnail unset instead.
	return "https://image.video.skool.com/" + id + "/thumbnail.jpg"
}

func (s *Skool) DetectInDocument(doc *goquery.Document, rawHTML string) []models.VideoRecord {
	records := scanStructured(s, doc, rawHTML, skoolStablePatterns)

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		seen[r.VideoID] = true
	}

	// Direct CDN mp4 references keep their literal URL and carry no
	// derivable thumbnail.
	for _, payload := range structuredPayloads(doc, rawHTML) {
		for _, re := range []*regexp.Regexp{skoolVideoURLPattern, skoolCDNPattern} {
			for _, m := range re.FindAllStringSubmatch(payload, -1) {
				if len(m) < 2 || !s.OwnsURL(m[1]) {
					continue
				}
				if rec, ok := s.directRecord(m[1]); ok && !seen[rec.VideoID] {
					seen[rec.VideoID] = true
					records = append(records, rec)
				}
			}
		}
	}

	return records
}

func (s *Skool) DetectInSelection(sel *goquery.Selection) []models.VideoRecord {
	var records []models.VideoRecord

	sel.Find("video").Each(func(_ int, video *goquery.Selection) {
		src, _ := video.Attr("src")
		if src == "" {
			src, _ = video.Find("source").First().Attr("src")
		}

		if src != "" && !strings.HasPrefix(src, "blob:") && s.OwnsURL(src) {
			if rec, ok := s.directRecord(src); ok {
				if t := thumbnailFromSelection(video); t != "" {
					rec.Thumbnail = t
				}
				records = append(records, rec)
			}
			return
		}

		// Opaque blob src: the side tracks still identify the video.
		video.Find("track").EachWithBreak(func(_ int, track *goquery.Selection) bool {
			trackSrc, _ := track.Attr("src")
			id, ok := firstMatch(skoolStablePatterns, trackSrc)
			if !ok {
				return true
			}
			records = append(records, newRecord(s, id))
			return false
		})
	})

	sel.Find(`a[href*=".mp4"], a[href*="skool.com"]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !s.OwnsURL(href) {
			return
		}
		if rec, ok := s.directRecord(href); ok {
			records = append(records, rec)
		}
	})

	sel.Find(`[data-video-url], [data-src*=".mp4"]`).Each(func(_ int, el *goquery.Selection) {
		raw, ok := el.Attr("data-video-url")
		if !ok {
			raw, _ = el.Attr("data-src")
		}
		if raw == "" || !s.OwnsURL(raw) {
			return
		}
		if rec, ok := s.directRecord(raw); ok {
			records = append(records, rec)
		}
	})

	return dedupeByID(records)
}

// directRecord builds a record for a literal CDN URL: the URL itself is the
// canonical playback form, query-stripped, identified by its final path
// segment.
func (s *Skool) directRecord(raw string) (models.VideoRecord, bool) {
	stripped := stripQuery(raw)
	seg := lastPathSegment(stripped)
	if seg == "" {
		return models.VideoRecord{}, false
	}
	return models.VideoRecord{
		VideoID:  seg,
		URL:      stripped,
		Provider: s.Name(),
		Type:     s.Name(),
	}, true
}

func lastPathSegment(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func stripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
