package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/tidwall/gjson"

	"github.com/skoolgrab/scanner/pkg/logger"
	"github.com/skoolgrab/scanner/pkg/models"
)

var ogTitlePattern = regexp.MustCompile(`<meta\s+property="og:title"\s+content="([^"]+)"`)

// Enricher fills in fields a detection pass cannot derive locally: Loom
// titles from the public share page and Wistia thumbnails from the oembed
// endpoint. Enrichment is best-effort: any failure or timeout leaves the
// record exactly as detected.
type Enricher struct {
	client     *http.Client
	loomBase   string
	oembedBase string
}

func New(timeout time.Duration) *Enricher {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Enricher{
		client:     &http.Client{Timeout: timeout},
		loomBase:   "https://www.loom.com",
		oembedBase: "https://fast.wistia.com",
	}
}

// Enrich returns an enriched copy of the records; the input is never
// mutated so a caller can keep serving the un-enriched snapshot while the
// round-trips are in flight.
func (e *Enricher) Enrich(ctx context.Context, records []models.VideoRecord) []models.VideoRecord {
	out := make([]models.VideoRecord, len(records))
	copy(out, records)

	for i, rec := range out {
		switch {
		case rec.Provider == models.PlatformLoom && rec.VideoID != "" && rec.Title == "":
			if title, err := e.loomTitle(ctx, rec.VideoID); err != nil {
				logger.Log.Debug().Err(err).Str("video", rec.VideoID).Msg("loom title fetch failed")
			} else if title != "" {
				out[i].Title = title
			}

		case rec.Provider == models.PlatformWistia && rec.VideoID != "" && rec.Thumbnail == "":
			if thumb, err := e.wistiaThumbnail(ctx, rec.VideoID); err != nil {
				logger.Log.Debug().Err(err).Str("video", rec.VideoID).Msg("wistia thumbnail fetch failed")
			} else if thumb != "" {
				out[i].Thumbnail = thumb
			}
		}
	}

	return out
}

func (e *Enricher) loomTitle(ctx context.Context, videoID string) (string, error) {
	body, err := e.get(ctx, e.loomBase+"/share/"+videoID)
	if err != nil {
		return "", err
	}
	if m := ogTitlePattern.FindStringSubmatch(body); len(m) > 1 {
		return m[1], nil
	}
	return "", nil
}

func (e *Enricher) wistiaThumbnail(ctx context.Context, videoID string) (string, error) {
	embed := url.QueryEscape("https://fast.wistia.net/embed/iframe/" + videoID)
	body, err := e.get(ctx, e.oembedBase+"/oembed?url="+embed)
	if err != nil {
		return "", err
	}
	if !gjson.Valid(body) {
		return "", fmt.Errorf("oembed: invalid json")
	}
	return gjson.Get(body, "thumbnail_url").String(), nil
}

func (e *Enricher) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
