package provider

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skoolgrab/scanner/pkg/models"
)

// Provider is the per-platform detection and normalization contract.
// Detection methods never fail: malformed or empty input yields an empty
// slice, which callers treat as "not this platform" and move on.
type Provider interface {
	Name() models.Platform

	// OwnsURL is a cheap domain test used as a fast filter.
	OwnsURL(url string) bool

	// ExtractID returns the platform video ID, or false when the URL
	// matches none of the platform's known shapes.
	ExtractID(url string) (string, bool)

	// CanonicalURL builds the canonical share/watch URL for an ID.
	CanonicalURL(id string) string

	// ThumbnailURL builds a preview image URL for an ID, or "" when the
	// platform has no derivable thumbnail formula.
	ThumbnailURL(id string) string

	// DetectInDocument scans the page's structured context: the embedded
	// hydration payload plus all inline script text.
	DetectInDocument(doc *goquery.Document, rawHTML string) []models.VideoRecord

	// DetectInSelection scans a live DOM subtree for platform markers.
	DetectInSelection(sel *goquery.Selection) []models.VideoRecord
}

// firstMatch runs an ordered pattern table against one input and returns
// the first capture group of the first pattern that hits.
func firstMatch(patterns []*regexp.Regexp, input string) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(input); len(m) > 1 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}

// structuredPayloads collects the text blobs a structured-context scan runs
// over: the hydration payload first, then every other inline script. When
// the document yields nothing, the raw HTML serves as a last resort.
func structuredPayloads(doc *goquery.Document, rawHTML string) []string {
	var payloads []string
	if doc != nil {
		if next := doc.Find("script#__NEXT_DATA__").First(); next.Length() > 0 {
			if t := next.Text(); t != "" {
				payloads = append(payloads, normalizePayload(t))
			}
		}
		doc.Find("script").Each(func(_ int, s *goquery.Selection) {
			if id, _ := s.Attr("id"); id == "__NEXT_DATA__" {
				return
			}
			if t := s.Text(); strings.TrimSpace(t) != "" {
				payloads = append(payloads, normalizePayload(t))
			}
		})
	}
	if len(payloads) == 0 && rawHTML != "" {
		payloads = append(payloads, normalizePayload(rawHTML))
	}
	return payloads
}

// scanStructured applies a platform's full pattern table to every payload
// and collects all distinct IDs. A single hydration payload can legitimately
// reference several lesson videos, so every pattern is exhausted rather than
// stopping at the first hit.
func scanStructured(p Provider, doc *goquery.Document, rawHTML string, patterns []*regexp.Regexp) []models.VideoRecord {
	var records []models.VideoRecord
	seen := make(map[string]bool)

	for _, payload := range structuredPayloads(doc, rawHTML) {
		for _, re := range patterns {
			for _, m := range re.FindAllStringSubmatch(payload, -1) {
				if len(m) < 2 || m[1] == "" || seen[m[1]] {
					continue
				}
				seen[m[1]] = true
				records = append(records, newRecord(p, m[1]))
			}
		}
	}

	return records
}

func newRecord(p Provider, id string) models.VideoRecord {
	return models.VideoRecord{
		VideoID:   id,
		URL:       p.CanonicalURL(id),
		Thumbnail: p.ThumbnailURL(id),
		Provider:  p.Name(),
		Type:      p.Name(),
	}
}

// dedupeByID suppresses repeat IDs within one provider's detection pass,
// keeping first-seen order.
func dedupeByID(records []models.VideoRecord) []models.VideoRecord {
	if len(records) < 2 {
		return records
	}
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, r := range records {
		if seen[r.VideoID] {
			continue
		}
		seen[r.VideoID] = true
		out = append(out, r)
	}
	return out
}
