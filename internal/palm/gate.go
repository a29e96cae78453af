package palm

import "time"

// StabilityWindow is how long a good palm must be held before the gate fires.
const StabilityWindow = 3 * time.Second

type GateState int

const (
	// GateNoHand means no hand is visible in the frame.
	GateNoHand GateState = iota
	// GateLowQuality means a hand is visible but not presented well enough.
	// For timing purposes it behaves exactly like GateNoHand; it only exists
	// so the caller can show a guidance hint.
	GateLowQuality
	// GateStable means a good palm is being held and the countdown is running.
	GateStable
	// GateCaptured is terminal until Reset: the gate has fired once.
	GateCaptured
)

type Action int

const (
	ActionNone Action = iota
	ActionStartCountdown
	ActionCancelCountdown
	ActionFire
)

// Detection is one frame's result from the hand-tracking collaborator.
type Detection struct {
	Present   bool
	Landmarks LandmarkSet
}

// Gate decides when sustained good hand presentation should trigger an
// automatic capture. It fires at most once per session; Reset starts a new
// session. The caller supplies the clock, one frame at a time, so the gate
// itself never sleeps and is trivially testable.
//
// Gate is not safe for concurrent use; frames must arrive from a single
// goroutine, which matches the camera callback model it serves.
type Gate struct {
	state       GateState
	stableSince time.Time
	window      time.Duration
}

func NewGate() *Gate {
	return &Gate{window: StabilityWindow}
}

func (g *Gate) State() GateState { return g.state }

// OnFrame advances the gate with one detection result.
//
// Any bad or absent frame while the countdown runs cancels it completely; a
// later good frame restarts from zero, never resumes.
func (g *Gate) OnFrame(det Detection, now time.Time) Action {
	if g.state == GateCaptured {
		return ActionNone
	}

	good := false
	if det.Present {
		_, good = Evaluate(det.Landmarks)
	}

	if !good {
		prev := g.state
		if det.Present {
			g.state = GateLowQuality
		} else {
			g.state = GateNoHand
		}
		if prev == GateStable {
			return ActionCancelCountdown
		}
		return ActionNone
	}

	switch g.state {
	case GateNoHand, GateLowQuality:
		g.state = GateStable
		g.stableSince = now
		return ActionStartCountdown
	case GateStable:
		if now.Sub(g.stableSince) >= g.window {
			g.state = GateCaptured
			return ActionFire
		}
	}

	return ActionNone
}

// Reset returns the gate to GateNoHand for a new reading session.
func (g *Gate) Reset() {
	g.state = GateNoHand
	g.stableSince = time.Time{}
}
