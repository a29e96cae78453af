package palm

import "math"

// Empirical tuning thresholds for what counts as a well-presented open palm.
// Verdicts use strict greater-than comparisons.
const (
	MinSplayScore     = 0.22
	MinThumbIndexGap  = 0.08
	MinHandSize       = 0.15
	MinPalmVisibility = 0.4
)

// Metrics are the per-frame scalar quality scores derived from one landmark
// set. They are recomputed every frame and never stored.
type Metrics struct {
	Splay          float64 `json:"splay"`
	ThumbIndexGap  float64 `json:"thumb_index_gap"`
	HandSize       float64 `json:"hand_size"`
	PalmVisibility float64 `json:"palm_visibility"`
}

// GoodPalm reports whether every metric clears its threshold.
func (m Metrics) GoodPalm() bool {
	return m.Splay > MinSplayScore &&
		m.ThumbIndexGap > MinThumbIndexGap &&
		m.HandSize > MinHandSize &&
		m.PalmVisibility > MinPalmVisibility
}

// Evaluate scores one detected hand and decides whether it is an open,
// centered, close-enough palm. Pure and deterministic.
func Evaluate(hand LandmarkSet) (Metrics, bool) {
	m := Metrics{
		Splay:          splayScore(hand),
		ThumbIndexGap:  thumbIndexGap(hand),
		HandSize:       handSize(hand),
		PalmVisibility: palmVisibility(hand),
	}
	return m, m.GoodPalm()
}

// splayScore is the average distance between adjacent fingertips, normalized
// by the wrist-to-hand-width reference so the score is distance invariant.
func splayScore(hand LandmarkSet) float64 {
	wrist := hand[LandmarkWrist]
	tips := []Point{
		hand[LandmarkThumbTip],
		hand[LandmarkIndexTip],
		hand[LandmarkMiddleTip],
		hand[LandmarkRingTip],
		hand[LandmarkPinkyTip],
	}

	center := Point{
		X: (tips[1].X + tips[4].X) / 2,
		Y: (tips[1].Y + tips[4].Y) / 2,
	}
	handWidth := distance(center, wrist)

	var sum float64
	for i := 0; i < len(tips)-1; i++ {
		sum += distance(tips[i], tips[i+1])
	}
	avgGap := sum / float64(len(tips)-1)

	return avgGap / (handWidth + 0.1)
}

// thumbIndexGap separates an open hand from a fist: a curled thumb sits on
// top of the index finger and the gap collapses.
func thumbIndexGap(hand LandmarkSet) float64 {
	gap := distance(hand[LandmarkThumbTip], hand[LandmarkIndexTip])
	ref := distance(hand[LandmarkIndexTip], hand[LandmarkWrist])
	return gap / (ref + 0.1)
}

// handSize is the bounding-box diagonal of all landmarks. Small values mean
// the hand is too far from the camera.
func handSize(hand LandmarkSet) float64 {
	minX, maxX := hand[0].X, hand[0].X
	minY, maxY := hand[0].Y, hand[0].Y
	for _, p := range hand[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	width := maxX - minX
	height := maxY - minY
	return math.Sqrt(width*width + height*height)
}

// palmVisibility rewards a palm centroid close to the frame center.
func palmVisibility(hand LandmarkSet) float64 {
	wrist := hand[LandmarkWrist]
	middleBase := hand[LandmarkMiddleBase]
	ringBase := hand[LandmarkRingBase]

	center := Point{
		X: (wrist.X + middleBase.X + ringBase.X) / 3,
		Y: (wrist.Y + middleBase.Y + ringBase.Y) / 3,
	}

	return 1 - distance(center, Point{X: 0.5, Y: 0.5})
}

func distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
