package provider

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/skoolgrab/scanner/pkg/models"
)

// The subtree passes below implement the shared part of the detection
// precedence every platform follows: iframes first, then anchors, then
// elements carrying embed data attributes. Platform-specific native markers
// are layered on top by each provider.

func collectIframes(p Provider, sel *goquery.Selection) []models.VideoRecord {
	var records []models.VideoRecord
	sel.Find("iframe").Each(func(_ int, iframe *goquery.Selection) {
		src := iframeSrc(iframe)
		if src == "" || !p.OwnsURL(src) {
			return
		}
		id, ok := p.ExtractID(src)
		if !ok {
			return
		}
		rec := newRecord(p, id)
		if title, exists := iframe.Attr("title"); exists && title != "" {
			rec.Title = title
		} else {
			rec.Title = nearestHeading(iframe)
		}
		if rec.Thumbnail == "" {
			rec.Thumbnail = thumbnailFromSelection(iframe.Parent())
		}
		records = append(records, rec)
	})
	return records
}

func collectLinks(p Provider, sel *goquery.Selection, selector string) []models.VideoRecord {
	var records []models.VideoRecord
	sel.Find(selector).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if href == "" || !p.OwnsURL(href) {
			return
		}
		id, ok := p.ExtractID(href)
		if !ok {
			return
		}
		rec := newRecord(p, id)
		if rec.Thumbnail == "" {
			rec.Thumbnail = thumbnailFromSelection(link.Parent())
		}
		records = append(records, rec)
	})
	return records
}

// collectDataEmbeds reads embed data attributes. idAttrs carry a bare video
// ID; urlAttrs carry an embed URL that still needs ID extraction.
func collectDataEmbeds(p Provider, sel *goquery.Selection, selector string, idAttrs, urlAttrs []string) []models.VideoRecord {
	var records []models.VideoRecord
	sel.Find(selector).Each(func(_ int, el *goquery.Selection) {
		for _, attr := range idAttrs {
			if id, ok := el.Attr(attr); ok && id != "" {
				rec := newRecord(p, id)
				if rec.Thumbnail == "" {
					rec.Thumbnail = thumbnailFromSelection(el)
				}
				records = append(records, rec)
				return
			}
		}
		for _, attr := range urlAttrs {
			raw, ok := el.Attr(attr)
			if !ok || raw == "" || !p.OwnsURL(raw) {
				continue
			}
			if id, ok := p.ExtractID(raw); ok {
				rec := newRecord(p, id)
				if rec.Thumbnail == "" {
					rec.Thumbnail = thumbnailFromSelection(el)
				}
				records = append(records, rec)
				return
			}
		}
	})
	return records
}
