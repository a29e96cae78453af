package palm

import (
	"errors"
	"fmt"
)

// ErrBadLandmarkCount marks tracker output that does not carry a full
// 21-point hand.
var ErrBadLandmarkCount = errors.New("malformed hand landmarks")

// MediaPipe-style hand landmark indices. A tracked hand is always delivered
// as 21 points in normalized [0,1] image coordinates.
const (
	LandmarkWrist      = 0
	LandmarkThumbTip   = 4
	LandmarkIndexTip   = 8
	LandmarkMiddleBase = 9
	LandmarkMiddleTip  = 12
	LandmarkRingBase   = 13
	LandmarkRingTip    = 16
	LandmarkPinkyTip   = 20
)

// LandmarkCount is the number of points the tracker reports per hand.
const LandmarkCount = 21

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LandmarkSet is one detected hand in one frame. The fixed-size array makes a
// malformed set unrepresentable once constructed.
type LandmarkSet [LandmarkCount]Point

// LandmarkSetFromSlice validates raw tracker output. A wrong point count is a
// contract violation by the tracking collaborator, not a recoverable state.
func LandmarkSetFromSlice(points []Point) (LandmarkSet, error) {
	var set LandmarkSet
	if len(points) != LandmarkCount {
		return set, fmt.Errorf("%w: expected %d points, got %d", ErrBadLandmarkCount, LandmarkCount, len(points))
	}
	copy(set[:], points)
	return set, nil
}
