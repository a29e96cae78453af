package kiosk

import (
	"ProjectPalm/internal/palm"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// CaptureDebounce is the minimum spacing between automatic captures, so a
// palm left in frame right after a reset cannot re-fire immediately.
const CaptureDebounce = 5 * time.Second

const fortuneRequestTimeout = 90 * time.Second

type Phase int

const (
	// PhaseIdle: frames are being gated, no reading in flight.
	PhaseIdle Phase = iota
	// PhaseProcessing: a capture fired and the reading request is running.
	PhaseProcessing
	// PhaseResultShown is terminal until Reset.
	PhaseResultShown
)

// Session drives one kiosk reading cycle: gate the frame stream, capture when
// the gate fires, request the fortune and hold the result until Reset.
//
// Frames must arrive from a single goroutine. Reset may be called from
// another (the UI); the generation counter makes a reply that raced a reset
// land in the void instead of on the next session's screen.
type Session struct {
	log      *logrus.Logger
	gate     *palm.Gate
	detector Detector
	client   IFortuneClient

	masterType string
	language   string
	debounce   time.Duration

	mu         sync.Mutex
	phase      Phase
	generation uint64
	lastFire   time.Time
	result     string
	err        error
}

func NewSession(log *logrus.Logger, detector Detector, client IFortuneClient, masterType, language string) *Session {
	return &Session{
		log:        log,
		gate:       palm.NewGate(),
		detector:   detector,
		client:     client,
		masterType: masterType,
		language:   language,
		debounce:   CaptureDebounce,
	}
}

// HandleFrame feeds one encoded frame through the gate and, when the gate fires,
// runs the capture synchronously. Detector failures degrade to an absent-hand
// frame so a flaky tracker cancels the countdown instead of killing the loop.
func (s *Session) HandleFrame(frame []byte, now time.Time) {
	s.mu.Lock()
	if s.phase != PhaseIdle {
		s.mu.Unlock()
		return
	}
	gen := s.generation
	s.mu.Unlock()

	det, err := s.detector.DetectPalm(frame)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Hand detection failed, treating frame as empty")
		det = palm.Detection{}
	}

	action := s.gate.OnFrame(det, now)

	switch action {
	case palm.ActionStartCountdown:
		s.log.Debug("Good palm held, countdown started")
	case palm.ActionCancelCountdown:
		s.log.Debug("Palm lost, countdown cancelled")
	case palm.ActionFire:
		s.fire(gen, frame, now)
	}
}

func (s *Session) fire(gen uint64, frame []byte, now time.Time) {
	s.mu.Lock()
	if !s.lastFire.IsZero() && now.Sub(s.lastFire) < s.debounce {
		s.mu.Unlock()
		s.log.Debug("Capture debounced, re-arming gate")
		s.gate.Reset()
		return
	}
	s.lastFire = now
	s.phase = PhaseProcessing
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"frame_bytes": len(frame),
		"master_type": s.masterType,
	}).Info("Palm captured, requesting fortune")

	ctx, cancel := context.WithTimeout(context.Background(), fortuneRequestTimeout)
	defer cancel()

	text, err := s.client.TellFortune(ctx, frame, "image/png", s.masterType, s.language)

	if !s.deliver(gen, text, err) {
		return
	}

	// Only delivered readings count toward usage.
	if err == nil {
		if _, usageErr := s.client.IncrementUsage(ctx); usageErr != nil {
			s.log.WithFields(logrus.Fields{
				"error": usageErr.Error(),
			}).Warn("Failed to increment usage count")
		}
	}
}

// deliver publishes the reading outcome unless a reset advanced the
// generation while the request was in flight.
func (s *Session) deliver(gen uint64, text string, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.log.Info("Discarding fortune reply from a previous session")
		return false
	}

	s.result = text
	s.err = err
	s.phase = PhaseResultShown
	return true
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Result returns the reading text or terminal error once Phase is
// PhaseResultShown.
func (s *Session) Result() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.err
}

// Reset starts a new reading session. Any in-flight reply from the previous
// session is discarded when it lands.
func (s *Session) Reset() {
	s.mu.Lock()
	s.generation++
	s.phase = PhaseIdle
	s.result = ""
	s.err = nil
	s.mu.Unlock()

	s.gate.Reset()
}
