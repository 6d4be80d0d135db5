package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/skoolgrab/scanner/internal/rescan"
	"github.com/skoolgrab/scanner/pkg/logger"
	"github.com/skoolgrab/scanner/pkg/nats"
	"github.com/skoolgrab/scanner/pkg/queue"
)

// defaultPageIdleTTL bounds how long a page's debounce state and last markup
// capture survive without fresh signals.
const defaultPageIdleTTL = 15 * time.Minute

type taskPublisher interface {
	PublishScanTask(ctx context.Context, task any) error
}

// RescanWorker consumes raw page-change signals and funnels them through a
// per-page debounce trigger. When a page settles, it schedules a fresh scan
// task over the last markup seen for that page.
type RescanWorker struct {
	natsClient *nats.Client
	publisher  taskPublisher
	cfg        rescan.Config
	idleTTL    time.Duration

	mu    sync.Mutex
	pages map[string]*pageState
}

type pageState struct {
	trigger *rescan.Trigger
	cancel  context.CancelFunc

	mu       sync.Mutex
	lastHTML string
	lastKind rescan.Kind
	lastSeen time.Time
}

func NewRescanWorker(natsClient *nats.Client, cfg rescan.Config) *RescanWorker {
	return &RescanWorker{
		natsClient: natsClient,
		publisher:  nats.NewPublisher(natsClient),
		cfg:        cfg,
		idleTTL:    defaultPageIdleTTL,
		pages:      make(map[string]*pageState),
	}
}

func (w *RescanWorker) Run(ctx context.Context) error {
	log := logger.Log

	consumer, err := nats.NewConsumer(w.natsClient, nats.ConsumerConfig{
		Stream:   nats.StreamRescanSignals,
		Consumer: "rescan-worker",
		AckWait:  30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	go w.sweepIdle(ctx)

	log.Info().Msg("starting rescan worker")

	return consumer.Consume(ctx, func(ctx context.Context, msg *nats.Message) error {
		var signal queue.RescanSignal
		if err := msg.Unmarshal(&signal); err != nil {
			log.Error().Err(err).Msg("failed to unmarshal rescan signal")
			return err
		}

		if signal.PageURL == "" {
			return nil
		}

		w.handleSignal(ctx, &signal)
		return nil
	})
}

func (w *RescanWorker) handleSignal(ctx context.Context, signal *queue.RescanSignal) {
	state := w.pageState(ctx, signal.PageURL)

	state.mu.Lock()
	if signal.HTML != "" {
		state.lastHTML = signal.HTML
	}
	state.lastKind = rescan.Kind(signal.Kind)
	state.lastSeen = time.Now()
	state.mu.Unlock()

	state.trigger.Offer(rescan.Signal{
		Kind:      rescan.Kind(signal.Kind),
		TargetTag: signal.TargetTag,
		Attribute: signal.Attribute,
		Markup:    signal.Markup,
	})
}

func (w *RescanWorker) pageState(ctx context.Context, pageURL string) *pageState {
	w.mu.Lock()
	defer w.mu.Unlock()

	if state, ok := w.pages[pageURL]; ok {
		return state
	}

	triggerCtx, cancel := context.WithCancel(ctx)
	state := &pageState{cancel: cancel, lastSeen: time.Now()}
	state.trigger = rescan.New(func() {
		w.scheduleScan(pageURL, state)
	}, w.cfg)
	w.pages[pageURL] = state

	go state.trigger.Run(triggerCtx)
	return state
}

// sweepIdle periodically evicts page state that stopped receiving signals.
// The page is torn down on the client side too: a page the user left sends
// nothing, so its state and goroutine must not outlive the idle window.
func (w *RescanWorker) sweepIdle(ctx context.Context) {
	interval := w.idleTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := w.Prune(w.idleTTL); evicted > 0 {
				logger.Log.Debug().Int("pages", evicted).Msg("idle page state evicted")
			}
		}
	}
}

// Prune drops every page whose last signal is older than maxAge, stopping
// its trigger goroutine and releasing its retained markup. It returns the
// number of pages evicted. A later signal for the same page starts clean.
func (w *RescanWorker) Prune(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	w.mu.Lock()
	defer w.mu.Unlock()

	var evicted int
	for pageURL, state := range w.pages {
		state.mu.Lock()
		idle := state.lastSeen.Before(cutoff)
		state.mu.Unlock()
		if !idle {
			continue
		}
		state.cancel()
		delete(w.pages, pageURL)
		evicted++
	}
	return evicted
}

func (w *RescanWorker) scheduleScan(pageURL string, state *pageState) {
	log := logger.Log

	state.mu.Lock()
	html := state.lastHTML
	kind := state.lastKind
	state.mu.Unlock()

	if html == "" {
		log.Debug().Str("page", pageURL).Msg("rescan fired without markup, skipping")
		return
	}

	task := queue.ScanTask{
		ID:          uuid.NewString(),
		PageURL:     pageURL,
		HTML:        html,
		TriggeredBy: string(kind),
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.publisher.PublishScanTask(ctx, &task); err != nil {
		log.Warn().Err(err).Str("page", pageURL).Msg("failed to schedule rescan")
		return
	}

	// The capture is consumed by the task it produced. The next rescan
	// waits for a fresh capture instead of replaying this one again.
	state.mu.Lock()
	if state.lastHTML == html {
		state.lastHTML = ""
	}
	state.mu.Unlock()

	log.Info().Str("page", pageURL).Str("task", task.ID).Str("kind", string(kind)).Msg("rescan scheduled")
}
