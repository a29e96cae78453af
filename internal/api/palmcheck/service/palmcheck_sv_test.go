package palmcheckService

import (
	"ProjectPalm/internal/entity"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeTracker struct {
	result *entity.HandTrackingResult
	err    error
	frames int
}

func (f *fakeTracker) DetectHand(_ []byte) (*entity.HandTrackingResult, error) {
	f.frames++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeTracker) IsConnected() bool { return true }
func (f *fakeTracker) Reconnect() error  { return nil }
func (f *fakeTracker) Close()            {}

// openPalmRows mirrors a centered, spread hand as the tracker reports it:
// 21 rows of x, y and an ignored z.
func openPalmRows() [][]float64 {
	points := [][2]float64{
		{0.50, 0.90}, {0.38, 0.82}, {0.30, 0.74}, {0.24, 0.64}, {0.20, 0.55},
		{0.40, 0.62}, {0.38, 0.50}, {0.36, 0.40}, {0.35, 0.30},
		{0.50, 0.60}, {0.50, 0.48}, {0.50, 0.36}, {0.50, 0.25},
		{0.57, 0.62}, {0.60, 0.50}, {0.62, 0.40}, {0.65, 0.30},
		{0.64, 0.66}, {0.70, 0.58}, {0.75, 0.48}, {0.80, 0.40},
	}

	rows := make([][]float64, 0, len(points))
	for _, p := range points {
		rows = append(rows, []float64{p[0], p[1], 0.01})
	}
	return rows
}

func newTestService(tracker *fakeTracker) IPalmCheckService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(log, tracker)
}

func TestProcessPalmFrameGoodPalm(t *testing.T) {
	tracker := &fakeTracker{result: &entity.HandTrackingResult{Landmarks: openPalmRows()}}
	svc := newTestService(tracker)

	result, err := svc.ProcessPalmFrame([]byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("ProcessPalmFrame() error = %v", err)
	}
	if !result.Present {
		t.Fatal("hand not reported present")
	}
	if !result.GoodPalm {
		t.Fatalf("open palm rejected, metrics = %+v", result.Metrics)
	}
	if result.Metrics == nil {
		t.Fatal("metrics missing for a present hand")
	}
	if result.Hint != HintGoodPalm {
		t.Errorf("hint = %q, want %q", result.Hint, HintGoodPalm)
	}
}

func TestProcessPalmFrameNoHand(t *testing.T) {
	tracker := &fakeTracker{result: &entity.HandTrackingResult{}}
	svc := newTestService(tracker)

	result, err := svc.ProcessPalmFrame([]byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("ProcessPalmFrame() error = %v", err)
	}
	if result.Present {
		t.Fatal("empty tracker reply reported as present hand")
	}
	if result.Metrics != nil {
		t.Error("metrics set without a hand")
	}
	if result.Hint != HintNoHand {
		t.Errorf("hint = %q, want %q", result.Hint, HintNoHand)
	}
}

func TestProcessPalmFrameClosedHand(t *testing.T) {
	rows := openPalmRows()
	// Curl the fingertips toward the palm center.
	rows[4] = []float64{0.48, 0.58}
	rows[8] = []float64{0.46, 0.56}
	rows[12] = []float64{0.50, 0.55}
	rows[16] = []float64{0.54, 0.56}
	rows[20] = []float64{0.57, 0.58}

	tracker := &fakeTracker{result: &entity.HandTrackingResult{Landmarks: rows}}
	svc := newTestService(tracker)

	result, err := svc.ProcessPalmFrame([]byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("ProcessPalmFrame() error = %v", err)
	}
	if !result.Present {
		t.Fatal("closed hand not reported present")
	}
	if result.GoodPalm {
		t.Fatalf("closed hand accepted, metrics = %+v", result.Metrics)
	}
	if result.Hint != HintLowQuality {
		t.Errorf("hint = %q, want %q", result.Hint, HintLowQuality)
	}
}

func TestProcessPalmFrameMalformedLandmarks(t *testing.T) {
	tracker := &fakeTracker{result: &entity.HandTrackingResult{
		Landmarks: openPalmRows()[:10],
	}}
	svc := newTestService(tracker)

	result, err := svc.ProcessPalmFrame([]byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("ProcessPalmFrame() error = %v", err)
	}
	if result.Present {
		t.Fatal("malformed landmark payload reported as present hand")
	}
}

func TestProcessPalmFrameTrackerFailure(t *testing.T) {
	upstream := errors.New("tracker unreachable")
	tracker := &fakeTracker{err: upstream}
	svc := newTestService(tracker)

	if _, err := svc.ProcessPalmFrame([]byte{0xff, 0xd8}); !errors.Is(err, upstream) {
		t.Fatalf("error = %v, want the tracker error", err)
	}
}
