package kiosk

import (
	"ProjectPalm/internal/palm"
	websocketPkg "ProjectPalm/pkg/websocket"

	"github.com/sirupsen/logrus"
)

// Detector turns one camera frame into a palm detection verdict.
type Detector interface {
	DetectPalm(frame []byte) (palm.Detection, error)
}

type trackerDetector struct {
	log     *logrus.Logger
	tracker websocketPkg.IHandTracker
}

// NewTrackerDetector adapts the hand-tracking websocket client to the gate's
// detection input.
func NewTrackerDetector(log *logrus.Logger, tracker websocketPkg.IHandTracker) Detector {
	return &trackerDetector{
		log:     log,
		tracker: tracker,
	}
}

func (d *trackerDetector) DetectPalm(frame []byte) (palm.Detection, error) {
	result, err := d.tracker.DetectHand(frame)
	if err != nil {
		return palm.Detection{}, err
	}

	if !result.HandPresent() {
		return palm.Detection{}, nil
	}

	points := make([]palm.Point, 0, len(result.Landmarks))
	for _, row := range result.Landmarks {
		if len(row) < 2 {
			d.log.WithFields(logrus.Fields{
				"points": len(result.Landmarks),
			}).Warn("Discarding malformed landmark payload")
			return palm.Detection{}, nil
		}
		points = append(points, palm.Point{X: row[0], Y: row[1]})
	}

	landmarks, err := palm.LandmarkSetFromSlice(points)
	if err != nil {
		d.log.WithFields(logrus.Fields{
			"points": len(points),
		}).Warn("Discarding malformed landmark payload")
		return palm.Detection{}, nil
	}

	return palm.Detection{Present: true, Landmarks: landmarks}, nil
}
