package palmcheckService

import (
	"ProjectPalm/internal/entity"
	"ProjectPalm/internal/palm"

	"github.com/sirupsen/logrus"
)

// On-screen guidance per frame verdict.
const (
	HintNoHand     = "Đưa lòng bàn tay vào khung hình nhé! ✋"
	HintLowQuality = "Xòe tay rõ hơn nhé! 🤲"
	HintGoodPalm   = "Tuyệt! Giữ yên nhé... 🔮"
)

// ProcessPalmFrame runs one camera frame through the hand tracker and scores
// the detected hand. A tracker reply without a usable 21-point hand counts as
// no hand; frame evaluation itself never errors.
func (s *palmCheckService) ProcessPalmFrame(frame []byte) (*entity.PalmCheckResult, error) {
	result, err := s.tracker.DetectHand(frame)
	if err != nil {
		return nil, err
	}

	if !result.HandPresent() {
		return &entity.PalmCheckResult{
			Present: false,
			Hint:    HintNoHand,
		}, nil
	}

	landmarks, err := landmarksFromTracker(result.Landmarks)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"points": len(result.Landmarks),
			"error":  err.Error(),
		}).Warn("Discarding malformed landmark payload")
		return &entity.PalmCheckResult{
			Present: false,
			Hint:    HintNoHand,
		}, nil
	}

	metrics, good := palm.Evaluate(landmarks)

	hint := HintLowQuality
	if good {
		hint = HintGoodPalm
	}

	return &entity.PalmCheckResult{
		Present:  true,
		GoodPalm: good,
		Metrics:  &metrics,
		Hint:     hint,
	}, nil
}

// landmarksFromTracker converts the tracker's raw point rows, keeping x and y
// and ignoring a trailing z.
func landmarksFromTracker(raw [][]float64) (palm.LandmarkSet, error) {
	points := make([]palm.Point, 0, len(raw))
	for _, row := range raw {
		if len(row) < 2 {
			return palm.LandmarkSet{}, palm.ErrBadLandmarkCount
		}
		points = append(points, palm.Point{X: row[0], Y: row[1]})
	}
	return palm.LandmarkSetFromSlice(points)
}
