package provider

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skoolgrab/scanner/pkg/models"
)

var numericIDPattern = regexp.MustCompile(`^[0-9]+$`)

type Vimeo struct{}

func NewVimeo() *Vimeo {
	return &Vimeo{}
}

func (v *Vimeo) Name() models.Platform {
	return models.PlatformVimeo
}

func (v *Vimeo) OwnsURL(url string) bool {
	return strings.Contains(url, "vimeo.com")
}

func (v *Vimeo) ExtractID(url string) (string, bool) {
	return firstMatch(vimeoPatterns, url)
}

func (v *Vimeo) CanonicalURL(id string) string {
	return "https://vimeo.com/" + id
}

func (v *Vimeo) ThumbnailURL(id string) string {
	// Vimeo exposes no thumbnail formula of its own; the vumbnail proxy
	// convention is best-effort only.
	return "https://vumbnail.com/" + id + ".jpg"
}

func (v *Vimeo) DetectInDocument(doc *goquery.Document, rawHTML string) []models.VideoRecord {
	return scanStructured(v, doc, rawHTML, vimeoPatterns)
}

func (v *Vimeo) DetectInSelection(sel *goquery.Selection) []models.VideoRecord {
	var records []models.VideoRecord

	records = append(records, collectIframes(v, sel)...)
	records = append(records, collectLinks(v, sel, `a[href*="vimeo.com"]`)...)

	sel.Find(`[data-vimeo-id], [data-video-id]`).Each(func(_ int, el *goquery.Selection) {
		id, ok := el.Attr("data-vimeo-id")
		if !ok {
			id, _ = el.Attr("data-video-id")
		}
		if numericIDPattern.MatchString(id) {
			records = append(records, newRecord(v, id))
		}
	})

	records = append(records, collectDataEmbeds(v, sel,
		`[data-embed-url*="vimeo"], [data-src*="vimeo"]`,
		nil, []string{"data-embed-url", "data-src"})...)

	return dedupeByID(records)
}
