package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int           // Pixels written to the sink
	Hits        int           // Pixels whose ray hit a sphere
	Misses      int           // Pixels painted with the background
	Clamped     int           // Pixels whose illumination was clamped into [0,1]
	Failed      int           // Pixels painted with core.ErrorColor
	Tiles       int           // Tiles completed
	Duration    time.Duration // Wall time of the whole render
	FirstError  error         // First per-pixel failure, if any
}

// Merge adds the counters of other into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.Hits += other.Hits
	s.Misses += other.Misses
	s.Clamped += other.Clamped
	s.Failed += other.Failed
	s.Tiles += other.Tiles
	if s.FirstError == nil {
		s.FirstError = other.FirstError
	}
}

// record updates the counters for one pixel
func (s *RenderStats) record(result PixelResult, err error) {
	s.TotalPixels++
	if err != nil {
		s.Failed++
		if s.FirstError == nil {
			s.FirstError = err
		}
		return
	}
	if !result.Hit {
		s.Misses++
		return
	}
	s.Hits++
	if result.Clamped {
		s.Clamped++
	}
}
