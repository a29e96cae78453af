package entity

import "ProjectPalm/internal/palm"

// PalmCheckResult is what the palm-quality websocket returns per frame so a
// browser client can drive its own capture countdown and guidance hints.
type PalmCheckResult struct {
	Present  bool          `json:"present"`
	GoodPalm bool          `json:"good_palm"`
	Metrics  *palm.Metrics `json:"metrics,omitempty"`
	Hint     string        `json:"hint,omitempty"`
}
