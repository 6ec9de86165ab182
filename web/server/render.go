package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/output"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"` // Pixel offset of the tile
	TileY      int    `json:"tileY"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Tiles completed so far (1-based)
	TotalTiles int    `json:"totalTiles"` // Total number of tiles in the image
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "start", "tile", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene, raytracer and target canvas
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.Raytracer
	Canvas    *output.Canvas
}

// setupRenderingPipeline creates the scene, raytracer and canvas for a request
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger *slog.Logger, onTile func(renderer.TileResult)) (*RenderingPipeline, error) {
	sceneObj, err := s.setupScene(req)
	if err != nil {
		return nil, err
	}

	raytracer, err := renderer.NewRaytracer(sceneObj.Width, sceneObj.Height, sceneObj.Viewport, renderer.Options{
		TileSize:   DefaultTileSize,
		NumWorkers: req.Workers,
		Shadows:    req.Shadows,
		OnTile:     onTile,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	canvas, err := output.NewCanvas(sceneObj.Width, sceneObj.Height)
	if err != nil {
		return nil, err
	}

	return &RenderingPipeline{Scene: sceneObj, Raytracer: raytracer, Canvas: canvas}, nil
}

// statusFor maps render errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidScene),
		errors.Is(err, core.ErrInvalidCanvas),
		errors.Is(err, core.ErrInvalidViewport):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads this
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleRender renders a scene and responds with the finished PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	pipeline, err := s.setupRenderingPipeline(req, s.logger, nil)
	if err != nil {
		// Unknown scenes, unreadable scene files and bad canvases are all the caller's
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := pipeline.Raytracer.Render(r.Context(), pipeline.Scene, pipeline.Scene.Camera, pipeline.Canvas)
	if err != nil {
		writeError(w, statusFor(err), fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := pipeline.Canvas.Encode(&buf, output.PNG); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Encode error: %v", err))
		return
	}

	w.Header().Set("Content-Type", output.PNG.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Pixels", strconv.Itoa(stats.TotalPixels))
	w.Header().Set("X-Render-Clamped", strconv.Itoa(stats.Clamped))
	w.Header().Set("X-Render-Failed", strconv.Itoa(stats.Failed))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderStream renders a scene with real-time tile streaming via SSE
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})

	// Start single SSE writer goroutine
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	consoleChan, logger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	// Console events must be flushed before the final event
	var stopOnce sync.Once
	stopConsole := func() {
		stopOnce.Do(func() {
			close(consoleChan)
			<-consoleDone
		})
	}
	defer stopConsole()

	var totalTiles, tileNumber int
	var pipeline *RenderingPipeline
	onTile := func(result renderer.TileResult) {
		tileNumber++
		s.handleTileUpdate(ctx, sseEventChan, pipeline.Canvas, result.Tile, tileNumber, totalTiles)
	}

	pipeline, err = s.setupRenderingPipeline(req, logger, onTile)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}
	totalTiles = len(renderer.NewTileGrid(pipeline.Scene.Width, pipeline.Scene.Height, DefaultTileSize))

	s.sendJSONEvent(ctx, sseEventChan, "start", map[string]any{
		"scene":      pipeline.Scene.Name,
		"width":      pipeline.Scene.Width,
		"height":     pipeline.Scene.Height,
		"totalTiles": totalTiles,
	})

	stats, err := pipeline.Raytracer.Render(ctx, pipeline.Scene, pipeline.Scene.Camera, pipeline.Canvas)
	stopConsole()
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	s.sendJSONEvent(ctx, sseEventChan, "complete", newStats(stats))
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates the console channel and a logger that feeds it
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, *slog.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, slog.New(NewConsoleHandler(renderID, consoleChan, s.logger.Handler()))
}

// writeSSEEvents writes all SSE events from a single goroutine until the
// channel is closed or the client disconnects
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	disconnected := false
	for event := range sseEventChan {
		// Keep draining after a disconnect so senders never block
		if disconnected || ctx.Err() != nil {
			disconnected = true
			continue
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			disconnected = true
			continue
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages to the SSE channel
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		if ctx.Err() != nil {
			continue
		}

		data, err := json.Marshal(consoleMsg)
		if err != nil {
			s.logger.Error("marshal console message", "err", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// handleTileUpdate encodes a finished tile and sends it as an SSE event
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, canvas *output.Canvas, tile renderer.Tile, tileNumber, totalTiles int) {
	if ctx.Err() != nil {
		return
	}

	tileImage := canvas.Image().SubImage(tile.Bounds)
	tileData, err := imageToBase64PNG(tileImage)
	if err != nil {
		s.logger.Error("encode tile image", "tile", tile.ID, "err", err)
		return
	}

	s.sendJSONEvent(ctx, sseEventChan, "tile", TileUpdate{
		TileX:      tile.Bounds.Min.X,
		TileY:      tile.Bounds.Min.Y,
		ImageData:  tileData,
		TileNumber: tileNumber,
		TotalTiles: totalTiles,
	})
}

// sendJSONEvent marshals data and queues it as an SSE event
func (s *Server) sendJSONEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, data any) {
	encoded, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("marshal SSE event", "type", eventType, "err", err)
		return
	}
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(encoded)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
