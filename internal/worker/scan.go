package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/skoolgrab/scanner/internal/enrich"
	"github.com/skoolgrab/scanner/internal/license"
	"github.com/skoolgrab/scanner/internal/scanner"
	"github.com/skoolgrab/scanner/internal/store"
	"github.com/skoolgrab/scanner/pkg/logger"
	"github.com/skoolgrab/scanner/pkg/models"
	"github.com/skoolgrab/scanner/pkg/nats"
	"github.com/skoolgrab/scanner/pkg/queue"
)

const enrichTimeout = 30 * time.Second

// ScanWorker consumes scan tasks, runs a full detection pass, and stores a
// replacement snapshot for the page. Enrichment runs after the snapshot is
// visible and is applied only when it still matches the stored generation.
type ScanWorker struct {
	natsClient *nats.Client
	publisher  *nats.Publisher
	dispatcher *scanner.Dispatcher
	snapshots  store.SnapshotStore
	enricher   *enrich.Enricher
	gate       license.Gate
	generation atomic.Uint64
}

func NewScanWorker(natsClient *nats.Client, dispatcher *scanner.Dispatcher, snapshots store.SnapshotStore, enricher *enrich.Enricher, gate license.Gate) *ScanWorker {
	return &ScanWorker{
		natsClient: natsClient,
		publisher:  nats.NewPublisher(natsClient),
		dispatcher: dispatcher,
		snapshots:  snapshots,
		enricher:   enricher,
		gate:       gate,
	}
}

func (w *ScanWorker) Run(ctx context.Context) error {
	return w.RunPool(ctx, 1)
}

func (w *ScanWorker) RunPool(ctx context.Context, workerCount int) error {
	log := logger.Log

	if workerCount < 1 {
		workerCount = 1
	}

	consumer, err := nats.NewConsumer(w.natsClient, nats.ConsumerConfig{
		Stream:        nats.StreamScanTasks,
		Consumer:      "scan-worker",
		MaxAckPending: workerCount * 2,
	})
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	log.Info().Int("workers", workerCount).Msg("starting scan worker pool")

	return consumer.ConsumePool(ctx, workerCount, func(ctx context.Context, msg *nats.Message) error {
		var task queue.ScanTask
		if err := msg.Unmarshal(&task); err != nil {
			log.Error().Err(err).Msg("failed to unmarshal scan task")
			return err
		}

		w.processTask(ctx, &task)
		return nil
	})
}

func (w *ScanWorker) processTask(ctx context.Context, task *queue.ScanTask) {
	log := logger.Log

	log.Info().
		Str("task", task.ID).
		Str("page", task.PageURL).
		Str("triggered_by", task.TriggeredBy).
		Msg("scan started")

	result := queue.ScanResultMsg{
		TaskID:  task.ID,
		PageURL: task.PageURL,
	}

	snap, err := w.Execute(ctx, task.PageURL, task.HTML)
	if err != nil {
		result.Error = err.Error()
		result.FinishedAt = time.Now()
		log.Error().Err(err).Str("page", task.PageURL).Msg("scan failed")
		w.sendResult(ctx, &result)
		return
	}

	result.Location = string(snap.Location)
	result.Generation = snap.Generation
	result.Count = snap.Count()
	result.Success = true
	result.FinishedAt = time.Now()

	log.Info().
		Str("task", task.ID).
		Str("page", snap.PageURL).
		Str("location", string(snap.Location)).
		Int("videos", snap.Count()).
		Uint64("generation", snap.Generation).
		Msg("scan completed")

	w.sendResult(ctx, &result)
}

// Execute runs the full detection pipeline for one page capture: license
// gate, dispatch, snapshot save, badge publish, deferred enrichment. A denied
// gate yields an empty snapshot, never an error.
func (w *ScanWorker) Execute(ctx context.Context, pageURL, html string) (models.ScanSnapshot, error) {
	log := logger.Log

	snap := models.ScanSnapshot{
		PageURL:  pageURL,
		Location: models.LocationUnknown,
	}

	if !w.gate.Allowed(ctx) {
		log.Warn().Str("page", pageURL).Msg("license gate denied, storing empty snapshot")
	} else {
		location, videos, err := w.dispatcher.Scan(pageURL, html)
		if err != nil {
			return models.ScanSnapshot{}, err
		}
		snap.Location = location
		snap.Videos = videos
	}

	snap.Generation = w.generation.Add(1)
	snap.ScannedAt = time.Now()

	if err := w.snapshots.Save(ctx, snap); err != nil {
		log.Warn().Err(err).Str("page", snap.PageURL).Msg("snapshot save failed")
	}

	// Zero is still published so consumers can tell "none found" apart
	// from "never scanned".
	if err := w.publisher.PublishBadgeUpdate(ctx, &queue.BadgeUpdate{
		PageURL: snap.PageURL,
		Count:   snap.Count(),
	}); err != nil {
		log.Debug().Err(err).Str("page", snap.PageURL).Msg("failed to send badge update")
	}

	if snap.Count() > 0 && w.enricher != nil {
		go w.enrichSnapshot(snap)
	}

	return snap, nil
}

// enrichSnapshot runs detached from the task context so enrichment survives
// the worker moving on to the next task. A stale result is discarded by the
// store's generation check rather than clobbering a newer snapshot.
func (w *ScanWorker) enrichSnapshot(snap models.ScanSnapshot) {
	log := logger.Log

	ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
	defer cancel()

	enriched := w.enricher.Enrich(ctx, snap.Videos)

	applied, err := w.snapshots.ApplyEnrichment(ctx, snap.PageURL, snap.Generation, enriched)
	if err != nil {
		log.Warn().Err(err).Str("page", snap.PageURL).Msg("enrichment apply failed")
		return
	}
	if !applied {
		log.Debug().
			Str("page", snap.PageURL).
			Uint64("generation", snap.Generation).
			Msg("enrichment discarded, snapshot superseded")
		return
	}

	log.Debug().Str("page", snap.PageURL).Uint64("generation", snap.Generation).Msg("enrichment applied")
}

func (w *ScanWorker) sendResult(ctx context.Context, result *queue.ScanResultMsg) {
	if err := w.publisher.PublishScanResult(ctx, result); err != nil {
		logger.Log.Warn().Err(err).Str("task", result.TaskID).Msg("failed to send result")
	}
}
