package scanner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// LessonMeta is the structured lesson metadata the host embeds for
// classroom pages. Only classroom routes hydrate it.
type LessonMeta struct {
	VideoLink  string
	Title      string
	DurationMS int64
}

// lessonMetadata walks the hydration payload for the lesson node carrying a
// videoLink. When lessonID is non-empty only a node with a matching id
// qualifies; otherwise the first videoLink-bearing node wins. A missing or
// unparsable payload just means no metadata.
func lessonMetadata(doc *goquery.Document, lessonID string) (LessonMeta, bool) {
	if doc == nil {
		return LessonMeta{}, false
	}
	raw := doc.Find("script#__NEXT_DATA__").First().Text()
	if strings.TrimSpace(raw) == "" || !gjson.Valid(raw) {
		return LessonMeta{}, false
	}
	return findLesson(gjson.Parse(raw), lessonID)
}

func findLesson(node gjson.Result, lessonID string) (LessonMeta, bool) {
	if node.IsObject() {
		if meta := node.Get("metadata"); meta.Exists() && meta.Get("videoLink").Exists() {
			if lessonID == "" || node.Get("id").String() == lessonID {
				return metaFromNode(meta), true
			}
		}
		// A bare metadata-shaped object reached directly.
		if lessonID == "" && node.Get("videoLink").Exists() {
			return metaFromNode(node), true
		}
	}

	if node.IsObject() || node.IsArray() {
		var (
			found LessonMeta
			ok    bool
		)
		node.ForEach(func(_, child gjson.Result) bool {
			if m, hit := findLesson(child, lessonID); hit {
				found, ok = m, true
				return false
			}
			return true
		})
		return found, ok
	}

	return LessonMeta{}, false
}

func metaFromNode(node gjson.Result) LessonMeta {
	return LessonMeta{
		VideoLink:  node.Get("videoLink").String(),
		Title:      node.Get("title").String(),
		DurationMS: node.Get("videoLenMs").Int(),
	}
}
