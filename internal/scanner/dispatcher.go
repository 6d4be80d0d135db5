package scanner

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/skoolgrab/scanner/pkg/logger"
	"github.com/skoolgrab/scanner/pkg/models"
	"github.com/skoolgrab/scanner/pkg/provider"
)

// Candidate container selectors per location, in probe order. Kept as single
// tables so the strategies can't drift apart.
var (
	classroomContainerSelectors = []string{
		".video-container",
		".lesson-video",
		".classroom-content",
		`[class*="video-player"]`,
		".lesson-content",
		"main",
	}

	communityPostSelectors = []string{
		".post-content",
		".community-post",
		`[class*="post-body"]`,
		`[class*="feed-item"]`,
		"article",
		".content-body",
	}

	aboutContainerSelectors = []string{
		"main",
		".about-content",
		`[class*="about"]`,
		".content",
		"article",
		".page-content",
		".description",
		`[role="main"]`,
		".main-content",
	}
)

// Dispatcher picks a detection strategy from the page's location kind and
// fans the chosen DOM regions out to the provider registry.
type Dispatcher struct {
	registry *provider.Registry
}

func NewDispatcher(registry *provider.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Scan runs one full detection pass over a page. It never fails because of
// page content: unparsable HTML or missing containers degrade to emptier
// strategies, and an empty result is a valid outcome.
func (d *Dispatcher) Scan(pageURL, rawHTML string) (models.Location, []models.VideoRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return models.LocationUnknown, nil, err
	}

	location := Classify(pageURL, doc)
	log := logger.Log.With().Str("url", pageURL).Str("location", string(location)).Logger()

	var records []models.VideoRecord

	switch location {
	case models.LocationClassroom:
		records = d.scanClassroom(doc, rawHTML, lessonParam(pageURL))
	case models.LocationCommunity:
		records = d.scanCommunity(doc)
	case models.LocationAbout:
		records = d.registry.DetectInSelection(firstContainer(doc, aboutContainerSelectors))
	default:
		records = d.registry.DetectInSelection(pageBody(doc))
	}

	for i := range records {
		records[i].Location = location
	}
	records = dedupeRecords(records)

	log.Debug().Int("videos", len(records)).Msg("detection pass finished")
	return location, records, nil
}

// scanClassroom prefers the structured context, where lesson video metadata
// normally lives, and only falls back to DOM scanning of the classroom
// container when the structured pass comes up empty.
func (d *Dispatcher) scanClassroom(doc *goquery.Document, rawHTML, lessonID string) []models.VideoRecord {
	records := d.registry.DetectInDocument(doc, rawHTML)

	if meta, ok := lessonMetadata(doc, lessonID); ok {
		if rec, ok := d.lessonRecord(meta); ok {
			// Lead with the metadata-backed record so de-duplication keeps
			// its title and duration.
			records = append([]models.VideoRecord{rec}, records...)
		}
	}

	if len(records) == 0 {
		records = d.registry.DetectInSelection(firstContainer(doc, classroomContainerSelectors))
	}
	return records
}

func (d *Dispatcher) lessonRecord(meta LessonMeta) (models.VideoRecord, bool) {
	p := d.registry.ByURL(meta.VideoLink)
	if p == nil {
		return models.VideoRecord{}, false
	}
	id, ok := p.ExtractID(meta.VideoLink)
	if !ok {
		return models.VideoRecord{}, false
	}
	return models.VideoRecord{
		VideoID:   id,
		URL:       p.CanonicalURL(id),
		Title:     meta.Title,
		Thumbnail: p.ThumbnailURL(id),
		Provider:  p.Name(),
		Type:      p.Name(),
		Duration:  int((meta.DurationMS + 500) / 1000),
	}, true
}

// scanCommunity runs the subtree scan over every post-like container.
// Community posts do not reliably hydrate from the structured blob, so
// there is no structured pass here.
func (d *Dispatcher) scanCommunity(doc *goquery.Document) []models.VideoRecord {
	var records []models.VideoRecord
	for _, post := range postContainers(doc) {
		records = append(records, d.registry.DetectInSelection(post)...)
	}
	return records
}

func postContainers(doc *goquery.Document) []*goquery.Selection {
	var containers []*goquery.Selection
	seen := make(map[*html.Node]bool)
	for _, selector := range communityPostSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if len(s.Nodes) == 0 || seen[s.Nodes[0]] {
				return
			}
			seen[s.Nodes[0]] = true
			containers = append(containers, s)
		})
	}
	return containers
}

// firstContainer probes an ordered selector list, defaulting to the body
// when nothing matches. A missing container is never fatal.
func firstContainer(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if s := doc.Find(selector).First(); s.Length() > 0 {
			return s
		}
	}
	return pageBody(doc)
}

func pageBody(doc *goquery.Document) *goquery.Selection {
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// dedupeRecords collapses repeats across detection strategies, keyed on
// (provider, videoID), keeping first-seen order.
func dedupeRecords(records []models.VideoRecord) []models.VideoRecord {
	if len(records) < 2 {
		return records
	}
	type key struct {
		provider models.Platform
		id       string
	}
	seen := make(map[key]bool, len(records))
	out := records[:0]
	for _, r := range records {
		k := key{r.Provider, r.VideoID}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func lessonParam(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("md")
}
