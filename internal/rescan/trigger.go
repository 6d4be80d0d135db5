package rescan

import (
	"context"
	"strings"
	"time"

	"github.com/skoolgrab/scanner/pkg/logger"
)

type Kind string

const (
	KindMutation Kind = "mutation"
	KindClick    Kind = "click"
	KindPlay     Kind = "play"
)

// Signal is one raw DOM event relayed from the page: a mutation with the
// markup it added, a user click, or a media play event.
type Signal struct {
	Kind      Kind   `json:"kind"`
	TargetTag string `json:"target_tag,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Markup    string `json:"markup,omitempty"`
}

// Substrings that make added markup plausibly video-bearing.
var videoMarkers = []string{
	"<iframe",
	"<video",
	"youtube",
	"youtu.be",
	"loom",
	"vimeo",
	"wistia",
	"skool",
	"blob:",
	"video.skool.com",
}

type Config struct {
	// Debounce is the quiet window after the last qualifying mutation.
	Debounce time.Duration
	// ClickDelay is the longer window after user clicks, giving lazy
	// content time to load.
	ClickDelay time.Duration
}

// Trigger coalesces qualifying signals and re-invokes the scan callback
// once the page has settled. It has no terminal state; it runs until its
// context is cancelled.
type Trigger struct {
	scan       func()
	debounce   time.Duration
	clickDelay time.Duration
	signals    chan Signal
}

func New(scan func(), cfg Config) *Trigger {
	if cfg.Debounce == 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if cfg.ClickDelay == 0 {
		cfg.ClickDelay = time.Second
	}
	return &Trigger{
		scan:       scan,
		debounce:   cfg.Debounce,
		clickDelay: cfg.ClickDelay,
		signals:    make(chan Signal, 64),
	}
}

// Offer hands a raw signal to the trigger. It never blocks; signals beyond
// the buffer are dropped, which is harmless because any retained signal in
// the same window will drive the same rescan.
func (t *Trigger) Offer(sig Signal) {
	select {
	case t.signals <- sig:
	default:
	}
}

// Relevant applies the content filter: rescans are only worth scheduling
// when the signal plausibly concerns video content.
func Relevant(sig Signal) bool {
	switch sig.Kind {
	case KindPlay:
		return true
	case KindMutation, KindClick:
		tag := strings.ToLower(sig.TargetTag)
		if tag == "iframe" || tag == "video" {
			return true
		}
		if sig.Attribute != "" && tag == "video" {
			return true
		}
		markup := strings.ToLower(sig.Markup)
		for _, marker := range videoMarkers {
			if strings.Contains(markup, marker) {
				return true
			}
		}
	}
	return false
}

// Run consumes signals until ctx is cancelled. Each qualifying signal
// restarts the debounce window; when it expires, the scan callback fires
// once for the whole burst.
func (t *Trigger) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			if armed && !timer.Stop() {
				<-timer.C
			}
			return

		case sig := <-t.signals:
			if !Relevant(sig) {
				continue
			}
			delay := t.debounce
			if sig.Kind == KindClick {
				delay = t.clickDelay
			}
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(delay)
			armed = true
			logger.Log.Debug().Str("kind", string(sig.Kind)).Dur("delay", delay).Msg("rescan scheduled")

		case <-timer.C:
			armed = false
			t.scan()
		}
	}
}
