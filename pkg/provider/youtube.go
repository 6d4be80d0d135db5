package provider

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skoolgrab/scanner/pkg/models"
)

type YouTube struct{}

func NewYouTube() *YouTube {
	return &YouTube{}
}

func (y *YouTube) Name() models.Platform {
	return models.PlatformYouTube
}

func (y *YouTube) OwnsURL(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}

func (y *YouTube) ExtractID(url string) (string, bool) {
	return firstMatch(youtubePatterns, url)
}

func (y *YouTube) CanonicalURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func (y *YouTube) ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
}

func (y *YouTube) DetectInDocument(doc *goquery.Document, rawHTML string) []models.VideoRecord {
	return scanStructured(y, doc, rawHTML, youtubePatterns)
}

func (y *YouTube) DetectInSelection(sel *goquery.Selection) []models.VideoRecord {
	var records []models.VideoRecord

	records = append(records, collectIframes(y, sel)...)
	records = append(records, collectLinks(y, sel, `a[href*="youtube.com"], a[href*="youtu.be"]`)...)
	records = append(records, collectDataEmbeds(y, sel,
		`[data-embed-url*="youtube"], [data-embed-url*="youtu.be"], [data-src*="youtube"]`,
		nil, []string{"data-embed-url", "data-src"})...)

	// Thumbnail images leak the video ID even when the player itself is
	// lazy-loaded.
	sel.Find(`img[src*="ytimg.com"]`).Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if m := youtubeThumbPattern.FindStringSubmatch(src); len(m) > 1 {
			records = append(records, newRecord(y, m[1]))
		}
	})

	return dedupeByID(records)
}
