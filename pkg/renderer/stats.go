package renderer

// RenderStats summarizes how the rays of a region terminated
type RenderStats struct {
	TotalPixels  int
	CapturedRays int // absorbed by the horizon
	EscapedRays  int // sampled the background
	AbsorbedRays int // terminated early inside opaque disk media
	TotalSteps   int
	AverageSteps float64 // march steps per ray
}

// merge folds another region's statistics into this one
func (rs *RenderStats) merge(other RenderStats) {
	rs.TotalPixels += other.TotalPixels
	rs.CapturedRays += other.CapturedRays
	rs.EscapedRays += other.EscapedRays
	rs.AbsorbedRays += other.AbsorbedRays
	rs.TotalSteps += other.TotalSteps
}

// finalize computes the derived averages after all regions are merged
func (rs *RenderStats) finalize() {
	if rs.TotalPixels > 0 {
		rs.AverageSteps = float64(rs.TotalSteps) / float64(rs.TotalPixels)
	}
}
