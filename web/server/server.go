package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// DefaultTileSize is the tile size used for web renders
const DefaultTileSize = 32

// Limits for request parameters
const (
	minDimension = 1
	maxDimension = 2000
	maxCoord     = 1e6
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	staticDir string
	logger    *slog.Logger
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, staticDir: "static/", logger: core.Logger()}
}

// SetLogger replaces the server log
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string     `json:"scene"`   // Built-in or file scene name
	Width   int        `json:"width"`   // Image width (0 = scene default)
	Height  int        `json:"height"`  // Image height (0 = scene default)
	Camera  *core.Vec3 `json:"camera"`  // Optional camera override
	Shadows bool       `json:"shadows"` // Cast hard shadows
	Workers int        `json:"workers"` // 0 = auto-detect
}

// Stats represents render statistics
type Stats struct {
	TotalPixels int   `json:"totalPixels"`
	Hits        int   `json:"hits"`
	Misses      int   `json:"misses"`
	Clamped     int   `json:"clamped"`
	Failed      int   `json:"failed"`
	Tiles       int   `json:"tiles"`
	ElapsedMs   int64 `json:"elapsedMs"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels: stats.TotalPixels,
		Hits:        stats.Hits,
		Misses:      stats.Misses,
		Clamped:     stats.Clamped,
		Failed:      stats.Failed,
		Tiles:       stats.Tiles,
		ElapsedMs:   stats.Duration.Milliseconds(),
	}
}

// Handler returns the HTTP handler with all routes registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)

	return s.logRequests(mux)
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting web server", "addr", "http://localhost"+addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// logRequests logs every API request at Info
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery, "duration", time.Since(start))
		}
	})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes returns the built-in and file scenes, grouped
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListScenes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	var err error
	if req.Shadows, err = parseBoolParam(r.URL.Query(), "shadows", false); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(r.URL.Query(), "workers", 0, 0, 256); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 1920*1080 && req.Shadows {
		s.logger.Warn("large image with shadows may render slowly", "width", req.Width, "height", req.Height)
	}

	return req, nil
}

// parseCommonSceneParams parses the parameters shared by render and inspect
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	values := r.URL.Query()

	if name := values.Get("scene"); name != "" {
		req.Scene = name
	} else {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, minDimension, maxDimension); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(values, "height", 0, minDimension, maxDimension); err != nil {
		return err
	}
	if camera := values.Get("camera"); camera != "" {
		position, err := parseVec3Param(camera)
		if err != nil {
			return fmt.Errorf("invalid camera: %w", err)
		}
		req.Camera = &position
	}
	return nil
}

// loadScene resolves a client-supplied name to a built-in scene or to a file
// listed by scene discovery. Paths are never opened directly.
func (s *Server) loadScene(name string) (*scene.Scene, error) {
	if strings.ContainsAny(name, `/\`) || strings.HasSuffix(name, ".json") {
		return nil, fmt.Errorf("invalid scene name: %q", name)
	}
	if sceneObj, err := scene.NewBuiltinScene(name); err == nil {
		return sceneObj, nil
	}

	listing, err := scene.ListScenes()
	if err != nil {
		return nil, err
	}
	for _, group := range listing.Groups {
		for _, info := range group.Scenes {
			if info.Type == "file" && info.ID == name {
				return scene.LoadFile(info.FilePath)
			}
		}
	}
	return nil, fmt.Errorf("unknown scene: %q", name)
}

// setupScene loads the requested scene and applies the request overrides
func (s *Server) setupScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.loadScene(req.Scene)
	if err != nil {
		return nil, err
	}
	if req.Width > 0 {
		sceneObj.Width = req.Width
	}
	if req.Height > 0 {
		sceneObj.Height = req.Height
	}
	if req.Camera != nil {
		sceneObj.Camera.Position = *req.Camera
	}
	return sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseVec3Param parses "x,y,z" with each component in [-maxCoord, maxCoord]
func parseVec3Param(value string) (core.Vec3, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected x,y,z, got %q", value)
	}
	keys := []string{"x", "y", "z"}
	values := url.Values{}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return core.Vec3{}, fmt.Errorf("missing %s component in %q", keys[i], value)
		}
		values.Set(keys[i], part)
	}

	var v [3]float64
	for i, key := range keys {
		parsed, err := parseFloatParam(values, key, 0, -maxCoord, maxCoord)
		if err != nil {
			return core.Vec3{}, err
		}
		v[i] = parsed
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError writes {"error": message}
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
