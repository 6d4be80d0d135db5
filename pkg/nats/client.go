package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/skoolgrab/scanner/pkg/logger"
)

const (
	// Stream names
	StreamScanTasks     = "SCAN_TASKS"
	StreamScanResults   = "SCAN_RESULTS"
	StreamRescanSignals = "RESCAN_SIGNALS"
	StreamBadgeUpdates  = "BADGE_UPDATES"
	StreamDLQ           = "DLQ"

	// Subject prefixes
	SubjectScanTasks     = "scan.tasks"
	SubjectScanResults   = "scan.results"
	SubjectRescanSignals = "rescan.signals"
	SubjectBadgeUpdates  = "badge.updates"
	SubjectDLQ           = "dlq.>"
)

type Client struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func New(url string) (*Client, error) {
	log := logger.Log

	opts := []nats.Option{
		nats.Name("skoolgrab-scanner"),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Warn().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Error().Err(err).Msg("nats disconnected")
			}
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	client := &Client{nc: nc, js: js}

	if err := client.ensureStreams(context.Background()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure streams: %w", err)
	}

	log.Info().Str("url", url).Msg("nats connected")
	return client, nil
}

func (c *Client) ensureStreams(ctx context.Context) error {
	streams := []jetstream.StreamConfig{
		{
			Name:        StreamScanTasks,
			Subjects:    []string{SubjectScanTasks},
			Retention:   jetstream.WorkQueuePolicy,
			MaxAge:      1 * time.Hour,
			Storage:     jetstream.FileStorage,
			Replicas:    1,
			Discard:     jetstream.DiscardOld,
			MaxMsgs:     10000,
			Description: "Scan tasks for detection workers",
		},
		{
			Name:        StreamScanResults,
			Subjects:    []string{SubjectScanResults},
			Retention:   jetstream.WorkQueuePolicy,
			MaxAge:      24 * time.Hour,
			Storage:     jetstream.FileStorage,
			Replicas:    1,
			Discard:     jetstream.DiscardOld,
			MaxMsgs:     100000,
			Description: "Scan results from detection workers",
		},
		{
			Name:        StreamRescanSignals,
			Subjects:    []string{SubjectRescanSignals},
			Retention:   jetstream.WorkQueuePolicy,
			MaxAge:      10 * time.Minute,
			Storage:     jetstream.MemoryStorage,
			Replicas:    1,
			Discard:     jetstream.DiscardOld,
			MaxMsgs:     100000,
			Description: "Raw page-change signals pending debounce",
		},
		{
			Name:        StreamBadgeUpdates,
			Subjects:    []string{SubjectBadgeUpdates},
			Retention:   jetstream.LimitsPolicy,
			MaxAge:      1 * time.Hour,
			Storage:     jetstream.MemoryStorage,
			Replicas:    1,
			Discard:     jetstream.DiscardOld,
			MaxMsgs:     10000,
			Description: "Video count updates for UI consumers",
		},
		{
			Name:        StreamDLQ,
			Subjects:    []string{SubjectDLQ},
			Retention:   jetstream.LimitsPolicy,
			MaxAge:      7 * 24 * time.Hour,
			Storage:     jetstream.FileStorage,
			Replicas:    1,
			Discard:     jetstream.DiscardOld,
			MaxMsgs:     10000,
			Description: "Dead letter queue for failed tasks",
		},
	}

	for _, cfg := range streams {
		_, err := c.js.CreateOrUpdateStream(ctx, cfg)
		if err != nil {
			return fmt.Errorf("create stream %s: %w", cfg.Name, err)
		}
		logger.Log.Debug().Str("stream", cfg.Name).Msg("stream ensured")
	}

	return nil
}

func (c *Client) JetStream() jetstream.JetStream {
	return c.js
}

func (c *Client) Close() {
	c.nc.Close()
}
