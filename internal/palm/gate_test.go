package palm

import (
	"testing"
	"time"
)

// frameInterval approximates a camera's native 30fps delivery rate.
const frameInterval = 33 * time.Millisecond

func goodDetection() Detection {
	return Detection{Present: true, Landmarks: openPalmHand()}
}

// feed pushes n consecutive detections starting at start and returns every
// action plus the clock position after the last frame.
func feed(g *Gate, det Detection, start time.Time, n int) ([]Action, time.Time) {
	actions := make([]Action, 0, n)
	now := start
	for i := 0; i < n; i++ {
		actions = append(actions, g.OnFrame(det, now))
		now = now.Add(frameInterval)
	}
	return actions, now
}

func countActions(actions []Action, want Action) int {
	n := 0
	for _, a := range actions {
		if a == want {
			n++
		}
	}
	return n
}

func TestGateDoesNotFireBelowStabilityWindow(t *testing.T) {
	g := NewGate()
	start := time.Unix(0, 0)

	// 40 frames at 30fps is roughly 1.3s of good palm: not enough.
	actions, _ := feed(g, goodDetection(), start, 40)

	if countActions(actions, ActionFire) != 0 {
		t.Fatal("gate fired before the stability window elapsed")
	}
	if actions[0] != ActionStartCountdown {
		t.Errorf("first good frame emitted %v, want StartCountdown", actions[0])
	}
	if g.State() != GateStable {
		t.Errorf("state = %v, want GateStable", g.State())
	}
}

func TestGateFiresExactlyOnce(t *testing.T) {
	g := NewGate()
	start := time.Unix(0, 0)

	// 100 frames is roughly 3.3s of sustained good palm.
	actions, now := feed(g, goodDetection(), start, 100)

	if got := countActions(actions, ActionFire); got != 1 {
		t.Fatalf("fire count = %d, want 1", got)
	}
	if g.State() != GateCaptured {
		t.Fatalf("state = %v, want GateCaptured", g.State())
	}

	// Re-detecting a hand after the fire is a no-op until reset.
	more, _ := feed(g, goodDetection(), now, 100)
	if got := countActions(more, ActionFire); got != 0 {
		t.Fatalf("gate fired again after capture, count = %d", got)
	}
	if countActions(more, ActionStartCountdown) != 0 {
		t.Fatal("gate restarted countdown after capture")
	}
}

func TestGateCancelRestartsCountdown(t *testing.T) {
	g := NewGate()
	start := time.Unix(0, 0)

	// 2.9s of good palm, then one absent frame, then another 2.9s. The
	// countdown must restart from zero, not resume, so the gate never fires.
	actions, now := feed(g, goodDetection(), start, 88)
	if countActions(actions, ActionFire) != 0 {
		t.Fatal("gate fired during first partial hold")
	}

	if a := g.OnFrame(Detection{Present: false}, now); a != ActionCancelCountdown {
		t.Fatalf("absent frame emitted %v, want CancelCountdown", a)
	}
	now = now.Add(frameInterval)

	actions, _ = feed(g, goodDetection(), now, 88)
	if countActions(actions, ActionFire) != 0 {
		t.Fatal("gate fired after a cancelled countdown resumed instead of restarting")
	}
	if actions[0] != ActionStartCountdown {
		t.Errorf("countdown did not restart, first action = %v", actions[0])
	}
}

func TestGateLowQualityHandCancelsToo(t *testing.T) {
	g := NewGate()
	start := time.Unix(0, 0)

	_, now := feed(g, goodDetection(), start, 60)

	// A visible fist is as disqualifying as an absent hand.
	if a := g.OnFrame(Detection{Present: true, Landmarks: fistHand()}, now); a != ActionCancelCountdown {
		t.Fatalf("low-quality frame emitted %v, want CancelCountdown", a)
	}
	if g.State() != GateLowQuality {
		t.Errorf("state = %v, want GateLowQuality", g.State())
	}
}

func TestGateResetAllowsNewSession(t *testing.T) {
	g := NewGate()
	start := time.Unix(0, 0)

	actions, now := feed(g, goodDetection(), start, 100)
	if countActions(actions, ActionFire) != 1 {
		t.Fatal("expected a fire in the first session")
	}

	g.Reset()
	if g.State() != GateNoHand {
		t.Fatalf("state after reset = %v, want GateNoHand", g.State())
	}

	actions, _ = feed(g, goodDetection(), now, 100)
	if countActions(actions, ActionFire) != 1 {
		t.Fatal("expected a fire in the second session")
	}
}
