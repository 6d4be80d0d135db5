package provider

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skoolgrab/scanner/pkg/models"
)

// Loom has no reliable thumbnail formula; the preview image is only used
// when it is literally present near the reference, and titles come from
// post-hoc enrichment against the share page.
type Loom struct{}

func NewLoom() *Loom {
	return &Loom{}
}

func (l *Loom) Name() models.Platform {
	return models.PlatformLoom
}

func (l *Loom) OwnsURL(url string) bool {
	return strings.Contains(url, "loom.com")
}

func (l *Loom) ExtractID(url string) (string, bool) {
	return firstMatch(loomPatterns, url)
}

func (l *Loom) CanonicalURL(id string) string {
	return "https://www.loom.com/share/" + id
}

func (l *Loom) ThumbnailURL(string) string {
	return ""
}

func (l *Loom) DetectInDocument(doc *goquery.Document, rawHTML string) []models.VideoRecord {
	return scanStructured(l, doc, rawHTML, loomPatterns)
}

func (l *Loom) DetectInSelection(sel *goquery.Selection) []models.VideoRecord {
	var records []models.VideoRecord

	records = append(records, collectIframes(l, sel)...)
	records = append(records, collectLinks(l, sel, `a[href*="loom.com"]`)...)
	records = append(records, collectDataEmbeds(l, sel,
		`[data-loom-id], [data-embed-url*="loom"], [data-src*="loom"]`,
		[]string{"data-loom-id"}, []string{"data-embed-url", "data-src"})...)

	return dedupeByID(records)
}
