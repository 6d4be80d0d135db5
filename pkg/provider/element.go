package provider

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var backgroundImagePattern = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)

// iframeSrc resolves an iframe's effective source, preferring the live src
// over lazy-load data-src and ignoring about:blank placeholders.
func iframeSrc(s *goquery.Selection) string {
	if src, ok := s.Attr("src"); ok && src != "" && src != "about:blank" {
		return src
	}
	if src, ok := s.Attr("data-src"); ok && src != "" {
		return src
	}
	return ""
}

// thumbnailFromSelection looks for a usable preview image near an element:
// a video poster, a child img, an inline background-image, then a sibling
// img one level up. Inline data: URIs are never usable.
func thumbnailFromSelection(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}

	if goquery.NodeName(s) == "video" {
		if poster, ok := s.Attr("poster"); ok && usableImageURL(poster) {
			return poster
		}
	}

	if src, ok := s.Find("img").First().Attr("src"); ok && usableImageURL(src) {
		return src
	}

	var fromStyle string
	s.Find(`[style*="background-image"]`).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		style, _ := el.Attr("style")
		if m := backgroundImagePattern.FindStringSubmatch(style); len(m) > 1 && usableImageURL(m[1]) {
			fromStyle = m[1]
			return false
		}
		return true
	})
	if fromStyle != "" {
		return fromStyle
	}

	if parent := s.Parent(); parent.Length() > 0 {
		if src, ok := parent.Find("img").First().Attr("src"); ok && usableImageURL(src) {
			return src
		}
	}

	return ""
}

func usableImageURL(src string) bool {
	return src != "" && !strings.Contains(src, "data:image")
}

// nearestHeading walks up from an element looking for the closest heading
// text, checking each ancestor and its preceding sibling up to five levels.
func nearestHeading(s *goquery.Selection) string {
	parent := s.Parent()
	for depth := 0; depth < 5 && parent.Length() > 0; depth++ {
		if t := headingText(parent); t != "" {
			return t
		}
		if prev := parent.Prev(); prev.Length() > 0 {
			if t := headingText(prev); t != "" {
				return t
			}
		}
		parent = parent.Parent()
	}
	return ""
}

func headingText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Find("h1, h2, h3, h4, h5, h6").First().Text())
}
