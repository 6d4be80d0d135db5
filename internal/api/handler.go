package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/skoolgrab/scanner/internal/command"
	"github.com/skoolgrab/scanner/internal/store"
	"github.com/skoolgrab/scanner/internal/worker"
	"github.com/skoolgrab/scanner/pkg/logger"
	"github.com/skoolgrab/scanner/pkg/models"
	"github.com/skoolgrab/scanner/pkg/queue"
)

// SignalPublisher relays raw page-change signals onto the rescan stream.
type SignalPublisher interface {
	PublishRescanSignal(ctx context.Context, signal any) error
}

type ScanRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

type SignalRequest struct {
	URL       string `json:"url"`
	Kind      string `json:"kind"`
	TargetTag string `json:"target_tag,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Markup    string `json:"markup,omitempty"`
	HTML      string `json:"html,omitempty"`
}

type ScanResponse struct {
	PageURL    string               `json:"page_url"`
	Location   models.Location      `json:"location"`
	Generation uint64               `json:"generation"`
	Count      int                  `json:"count"`
	Videos     []models.VideoRecord `json:"videos"`
}

type CommandResponse struct {
	VideoID string `json:"video_id"`
	OS      string `json:"os"`
	Command string `json:"command"`
}

type Handler struct {
	scans     *worker.ScanWorker
	snapshots store.SnapshotStore
	signals   SignalPublisher
}

func NewHandler(scans *worker.ScanWorker, snapshots store.SnapshotStore, signals SignalPublisher) *Handler {
	return &Handler{scans: scans, snapshots: snapshots, signals: signals}
}

func (h *Handler) SetupRoutes(app *fiber.App) {
	app.Post("/api/scan", h.handleScan)
	app.Post("/api/signal", h.handleSignal)
	app.Get("/api/videos", h.handleVideos)
	app.Get("/api/command", h.handleCommand)
	app.Get("/health", handleHealth)
}

func handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) handleScan(c *fiber.Ctx) error {
	log := logger.Log

	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.URL == "" {
		return c.Status(400).JSON(fiber.Map{"error": "url is required"})
	}
	if req.HTML == "" {
		return c.Status(400).JSON(fiber.Map{"error": "html is required"})
	}

	log.Info().Str("url", req.URL).Int("html_len", len(req.HTML)).Msg("scan request received")

	snap, err := h.scans.Execute(c.Context(), req.URL, req.HTML)
	if err != nil {
		log.Error().Err(err).Str("url", req.URL).Msg("scan request failed")
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(snapshotResponse(snap))
}

// handleSignal accepts a raw page-change signal and queues it for the
// rescan worker. The scan itself happens later, after debouncing.
func (h *Handler) handleSignal(c *fiber.Ctx) error {
	var req SignalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.URL == "" {
		return c.Status(400).JSON(fiber.Map{"error": "url is required"})
	}
	if req.Kind == "" {
		return c.Status(400).JSON(fiber.Map{"error": "kind is required"})
	}

	signal := queue.RescanSignal{
		PageURL:   req.URL,
		Kind:      req.Kind,
		TargetTag: req.TargetTag,
		Attribute: req.Attribute,
		Markup:    req.Markup,
		HTML:      req.HTML,
		SentAt:    time.Now(),
	}
	if err := h.signals.PublishRescanSignal(c.Context(), &signal); err != nil {
		logger.Log.Error().Err(err).Str("url", req.URL).Msg("failed to queue rescan signal")
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(202).JSON(fiber.Map{"status": "queued"})
}

func (h *Handler) handleVideos(c *fiber.Ctx) error {
	pageURL := c.Query("url")
	if pageURL == "" {
		return c.Status(400).JSON(fiber.Map{"error": "url is required"})
	}

	snap, found, err := h.snapshots.Latest(c.Context(), pageURL)
	if err != nil {
		logger.Log.Error().Err(err).Str("url", pageURL).Msg("snapshot lookup failed")
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if !found {
		return c.Status(404).JSON(fiber.Map{"error": "page not scanned"})
	}

	return c.JSON(snapshotResponse(snap))
}

func (h *Handler) handleCommand(c *fiber.Ctx) error {
	pageURL := c.Query("url")
	videoID := c.Query("video")
	if pageURL == "" || videoID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "url and video are required"})
	}
	osName := c.Query("os", "posix")

	snap, found, err := h.snapshots.Latest(c.Context(), pageURL)
	if err != nil {
		logger.Log.Error().Err(err).Str("url", pageURL).Msg("snapshot lookup failed")
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if !found {
		return c.Status(404).JSON(fiber.Map{"error": "page not scanned"})
	}

	for _, rec := range snap.Videos {
		if rec.VideoID == videoID {
			return c.JSON(CommandResponse{
				VideoID: videoID,
				OS:      osName,
				Command: command.Build(rec, osName == "windows"),
			})
		}
	}

	return c.Status(404).JSON(fiber.Map{"error": "video not found in snapshot"})
}

func snapshotResponse(snap models.ScanSnapshot) ScanResponse {
	videos := snap.Videos
	if videos == nil {
		videos = []models.VideoRecord{}
	}
	return ScanResponse{
		PageURL:    snap.PageURL,
		Location:   snap.Location,
		Generation: snap.Generation,
		Count:      snap.Count(),
		Videos:     videos,
	}
}
