package provider

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/skoolgrab/scanner/pkg/models"
)

// Wistia's delivery ID (used in thumbnail CDN URLs) differs from the media
// ID, so no thumbnail formula exists. JSON-LD VideoObject payloads on the
// page are the only local source; the oembed enrichment covers the rest.
type Wistia struct{}

func NewWistia() *Wistia {
	return &Wistia{}
}

func (w *Wistia) Name() models.Platform {
	return models.PlatformWistia
}

func (w *Wistia) OwnsURL(url string) bool {
	return strings.Contains(url, "wistia.com") || strings.Contains(url, "wistia.net")
}

func (w *Wistia) ExtractID(url string) (string, bool) {
	return firstMatch(wistiaPatterns, url)
}

func (w *Wistia) CanonicalURL(id string) string {
	return "https://fast.wistia.net/embed/iframe/" + id
}

func (w *Wistia) ThumbnailURL(string) string {
	return ""
}

func (w *Wistia) DetectInDocument(doc *goquery.Document, rawHTML string) []models.VideoRecord {
	records := scanStructured(w, doc, rawHTML, wistiaPatterns)

	if doc != nil && len(records) > 0 {
		thumbs := jsonLDThumbnails(doc)
		for i, rec := range records {
			if rec.Thumbnail == "" {
				if t, ok := thumbs[rec.VideoID]; ok {
					records[i].Thumbnail = t
				}
			}
		}
	}

	return records
}

// jsonLDThumbnails maps media IDs to thumbnail URLs found in VideoObject
// structured data adjacent to the embed.
func jsonLDThumbnails(doc *goquery.Document) map[string]string {
	thumbs := make(map[string]string)

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := s.Text()
		if !gjson.Valid(raw) {
			return
		}
		collectVideoObjects(gjson.Parse(raw), thumbs)
	})

	return thumbs
}

func collectVideoObjects(node gjson.Result, thumbs map[string]string) {
	if node.IsArray() {
		node.ForEach(func(_, item gjson.Result) bool {
			collectVideoObjects(item, thumbs)
			return true
		})
		return
	}
	if !node.IsObject() {
		return
	}

	if node.Get("@type").String() == "VideoObject" {
		embed := node.Get("embedUrl").String()
		if embed == "" {
			embed = node.Get("contentUrl").String()
		}
		thumb := node.Get("thumbnailUrl").String()
		if embed != "" && thumb != "" {
			if id, ok := firstMatch(wistiaPatterns, embed); ok {
				thumbs[id] = thumb
			}
		}
	}

	if graph := node.Get("@graph"); graph.Exists() {
		collectVideoObjects(graph, thumbs)
	}
}

func (w *Wistia) DetectInSelection(sel *goquery.Selection) []models.VideoRecord {
	var records []models.VideoRecord

	records = append(records, collectIframes(w, sel)...)

	// Wistia's JS embed encodes the media ID in a wistia_async_<id> class.
	sel.Find(`[class*="wistia_embed"], [class*="wistia_async"], [id*="wistia"]`).Each(func(_ int, el *goquery.Selection) {
		class, _ := el.Attr("class")
		if m := wistiaClassPattern.FindStringSubmatch(class); len(m) > 1 {
			records = append(records, newRecord(w, m[1]))
		}
	})

	records = append(records, collectLinks(w, sel, `a[href*="wistia.com"], a[href*="wistia.net"]`)...)
	records = append(records, collectDataEmbeds(w, sel,
		`[data-wistia-id], [data-embed-url*="wistia"], [data-src*="wistia"]`,
		[]string{"data-wistia-id"}, []string{"data-embed-url", "data-src"})...)

	return dedupeByID(records)
}
