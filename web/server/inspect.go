package server

import (
	"net/http"

	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	Color        string         `json:"color"` // Final pixel color as #rrggbb
	SphereIndex  int            `json:"sphereIndex"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"` // Ray parameter t of the hit
	Illumination float64        `json:"illumination"`
	RawFactor    float64        `json:"rawIllumination"`
	Clamped      bool           `json:"clamped"`
	Properties   map[string]any `json:"properties,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// extractSphereInfo describes the sphere that was hit
func extractSphereInfo(sphere geometry.Sphere) map[string]any {
	return map[string]any{
		"center":   [3]float64{sphere.Center.X, sphere.Center.Y, sphere.Center.Z},
		"radius":   sphere.Radius,
		"color":    sphere.Color.Hex(),
		"specular": sphere.Specular,
	}
}

// inspectPixel traces the ray through one sink pixel and reports how its color came about
func inspectPixel(sceneObj *scene.Scene, shadows bool, pixelX, pixelY int) (InspectResponse, error) {
	raytracer, err := renderer.NewRaytracer(sceneObj.Width, sceneObj.Height, sceneObj.Viewport, renderer.Options{Shadows: shadows})
	if err != nil {
		return InspectResponse{}, err
	}

	color, result, traceErr := raytracer.TracePixel(sceneObj, sceneObj.Camera, pixelX, pixelY)
	response := InspectResponse{
		Hit:          result.Hit,
		Color:        color.Hex(),
		SphereIndex:  result.SphereIndex,
		Illumination: result.Factor,
		RawFactor:    result.RawFactor,
		Clamped:      result.Clamped,
	}
	if traceErr != nil {
		response.Error = traceErr.Error()
	}
	if !result.Hit {
		return response, nil
	}

	response.Point = [3]float64{result.Point.X, result.Point.Y, result.Point.Z}
	response.Normal = [3]float64{result.Normal.X, result.Normal.Y, result.Normal.Z}
	response.Distance = result.T
	response.Properties = map[string]any{
		"geometry": extractSphereInfo(sceneObj.Spheres[result.SphereIndex]),
	}
	return response, nil
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	shadows, err := parseBoolParam(r.URL.Query(), "shadows", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sceneObj, err := s.setupScene(inspectReq)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := sceneObj.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Pixel coordinates are required and must lie on the canvas
	values := r.URL.Query()
	if values.Get("x") == "" || values.Get("y") == "" {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}
	pixelX, err := parseIntParam(values, "x", 0, 0, sceneObj.Width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds: "+err.Error())
		return
	}
	pixelY, err := parseIntParam(values, "y", 0, 0, sceneObj.Height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds: "+err.Error())
		return
	}

	response, err := inspectPixel(sceneObj, shadows, pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}
