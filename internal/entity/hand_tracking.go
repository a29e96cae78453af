package entity

// HandTrackingResult is the raw reply from the hand-tracking AI service for
// one frame: zero or one detected hands, each as 21 normalized points. Points
// may carry an unused z coordinate.
type HandTrackingResult struct {
	Landmarks  [][]float64 `json:"landmarks"`
	Handedness string      `json:"handedness,omitempty"`
	Score      float64     `json:"score,omitempty"`
}

// HandPresent reports whether the tracker saw a hand at all.
func (r *HandTrackingResult) HandPresent() bool {
	return r != nil && len(r.Landmarks) > 0
}
