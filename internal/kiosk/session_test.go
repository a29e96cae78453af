package kiosk

import (
	"ProjectPalm/internal/api/fortune"
	fortuneService "ProjectPalm/internal/api/fortune/service"
	"ProjectPalm/internal/palm"
	"ProjectPalm/pkg/gemini"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const frameInterval = 100 * time.Millisecond

// openPalmDetection is a centered, spread hand that clears every quality
// threshold.
func openPalmDetection() palm.Detection {
	return palm.Detection{
		Present: true,
		Landmarks: palm.LandmarkSet{
			{X: 0.50, Y: 0.90}, {X: 0.38, Y: 0.82}, {X: 0.30, Y: 0.74}, {X: 0.24, Y: 0.64}, {X: 0.20, Y: 0.55},
			{X: 0.40, Y: 0.62}, {X: 0.38, Y: 0.50}, {X: 0.36, Y: 0.40}, {X: 0.35, Y: 0.30},
			{X: 0.50, Y: 0.60}, {X: 0.50, Y: 0.48}, {X: 0.50, Y: 0.36}, {X: 0.50, Y: 0.25},
			{X: 0.57, Y: 0.62}, {X: 0.60, Y: 0.50}, {X: 0.62, Y: 0.40}, {X: 0.65, Y: 0.30},
			{X: 0.64, Y: 0.66}, {X: 0.70, Y: 0.58}, {X: 0.75, Y: 0.48}, {X: 0.80, Y: 0.40},
		},
	}
}

type scriptedDetector struct {
	det palm.Detection
	err error
}

func (d *scriptedDetector) DetectPalm(_ []byte) (palm.Detection, error) {
	return d.det, d.err
}

type scriptedGemini struct {
	text string
}

func (g *scriptedGemini) GenerateFromImage(_ context.Context, _, _ string, _ []byte) (*gemini.Result, error) {
	return &gemini.Result{Text: g.text, Model: "scripted"}, nil
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newFortuneBackend exposes the real fortune service behind the same HTTP
// contract the kiosk client speaks in production.
func newFortuneBackend(t *testing.T, rawModelText string, fortuneCalls, usageCount *int64) *httptest.Server {
	t.Helper()

	log := discardLogger()
	svc := fortuneService.NewFortuneService(log, &scriptedGemini{text: rawModelText}, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/fortune-telling", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(fortuneCalls, 1)

		file, header, err := r.FormFile("palmImage")
		if err != nil {
			t.Errorf("missing palmImage part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			t.Errorf("reading palmImage: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		reading, err := svc.GenerateFortune(r.Context(), data, header.Header.Get("Content-Type"), r.FormValue("masterType"), r.FormValue("language"))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(fortune.FortuneResponse{Success: true, Fortune: reading}); err != nil {
			t.Errorf("encoding response: %v", err)
		}
	})
	mux.HandleFunc("/api/v1/usage/increment", func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddInt64(usageCount, 1)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "count": count}); err != nil {
			t.Errorf("encoding usage response: %v", err)
		}
	})

	return httptest.NewServer(mux)
}

func TestSessionFullReading(t *testing.T) {
	var fortuneCalls, usageCount int64
	server := newFortuneBackend(t, "```json\n{\"fortune\": \"Vận mệnh tốt ❤️\"}\n```", &fortuneCalls, &usageCount)
	defer server.Close()

	client := NewFortuneClient(discardLogger(), server.URL)
	session := NewSession(discardLogger(), &scriptedDetector{det: openPalmDetection()}, client, "funny", "vi")

	frame := []byte{0xff, 0xd8, 0xff}
	start := time.Now()

	// Hold a good palm for 3.5s of frames. The gate fires once the
	// stability window elapses and the capture runs inline.
	for i := 0; i < 35; i++ {
		session.HandleFrame(frame, start.Add(time.Duration(i)*frameInterval))
	}

	if session.Phase() != PhaseResultShown {
		t.Fatalf("phase = %v, want PhaseResultShown", session.Phase())
	}

	text, err := session.Result()
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if text != "Vận mệnh tốt ❤️" {
		t.Errorf("result = %q, want the parsed fortune", text)
	}
	if got := atomic.LoadInt64(&fortuneCalls); got != 1 {
		t.Errorf("fortune requests = %d, want 1", got)
	}
	if got := atomic.LoadInt64(&usageCount); got != 1 {
		t.Errorf("usage increments = %d, want 1", got)
	}

	// The palm staying in frame after the result must not re-fire.
	for i := 35; i < 80; i++ {
		session.HandleFrame(frame, start.Add(time.Duration(i)*frameInterval))
	}
	if got := atomic.LoadInt64(&fortuneCalls); got != 1 {
		t.Errorf("fortune requests after result = %d, want 1", got)
	}
}

type countingClient struct {
	calls  int64
	onCall func()
	text   string
	err    error
}

func (c *countingClient) TellFortune(_ context.Context, _ []byte, _, _, _ string) (string, error) {
	atomic.AddInt64(&c.calls, 1)
	if c.onCall != nil {
		c.onCall()
	}
	return c.text, c.err
}

func (c *countingClient) IncrementUsage(_ context.Context) (int64, error) {
	return 1, nil
}

func TestSessionDebouncesRapidRecapture(t *testing.T) {
	client := &countingClient{text: "ok"}
	session := NewSession(discardLogger(), &scriptedDetector{det: openPalmDetection()}, client, "funny", "vi")

	frame := []byte{0xff, 0xd8}
	start := time.Now()

	feed := func(fromFrame, toFrame int) {
		for i := fromFrame; i < toFrame; i++ {
			session.HandleFrame(frame, start.Add(time.Duration(i)*frameInterval))
		}
	}

	// First capture fires at the 3s mark.
	feed(0, 35)
	if got := atomic.LoadInt64(&client.calls); got != 1 {
		t.Fatalf("captures = %d, want 1", got)
	}

	// Reset right away: the palm never left the frame, so the gate re-arms
	// and reaches fire again inside the debounce window. That fire must be
	// swallowed.
	session.Reset()
	feed(35, 70)
	if got := atomic.LoadInt64(&client.calls); got != 1 {
		t.Fatalf("captures inside debounce window = %d, want still 1", got)
	}

	// Past the debounce window the swallowed fire re-armed the gate, so a
	// held palm eventually captures again.
	feed(70, 120)
	if got := atomic.LoadInt64(&client.calls); got != 2 {
		t.Fatalf("captures after debounce window = %d, want 2", got)
	}
}

func TestSessionDiscardsReplyAfterReset(t *testing.T) {
	client := &countingClient{text: "stale reading"}
	session := NewSession(discardLogger(), &scriptedDetector{det: openPalmDetection()}, client, "funny", "vi")
	client.onCall = session.Reset

	frame := []byte{0xff, 0xd8}
	start := time.Now()
	for i := 0; i < 35; i++ {
		session.HandleFrame(frame, start.Add(time.Duration(i)*frameInterval))
	}

	if got := atomic.LoadInt64(&client.calls); got != 1 {
		t.Fatalf("captures = %d, want 1", got)
	}

	// The reply landed after the reset, so it belongs to a dead session.
	if session.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want PhaseIdle", session.Phase())
	}
	if text, _ := session.Result(); text != "" {
		t.Errorf("stale result leaked into new session: %q", text)
	}
}

func TestSessionCancelsCountdownOnLostPalm(t *testing.T) {
	client := &countingClient{text: "ok"}
	detector := &scriptedDetector{det: openPalmDetection()}
	session := NewSession(discardLogger(), detector, client, "funny", "vi")

	frame := []byte{0xff, 0xd8}
	start := time.Now()

	// 2.8s of good palm, almost there.
	for i := 0; i < 28; i++ {
		session.HandleFrame(frame, start.Add(time.Duration(i)*frameInterval))
	}

	// Hand leaves for one frame.
	detector.det = palm.Detection{}
	session.HandleFrame(frame, start.Add(28*frameInterval))

	// Another 2.8s: the countdown restarted from zero, so still no capture.
	detector.det = openPalmDetection()
	for i := 29; i < 57; i++ {
		session.HandleFrame(frame, start.Add(time.Duration(i)*frameInterval))
	}

	if got := atomic.LoadInt64(&client.calls); got != 0 {
		t.Fatalf("captures = %d, want 0 after interrupted hold", got)
	}

	// Completing a full uninterrupted window finally fires.
	for i := 57; i < 62; i++ {
		session.HandleFrame(frame, start.Add(time.Duration(i)*frameInterval))
	}
	if got := atomic.LoadInt64(&client.calls); got != 1 {
		t.Fatalf("captures = %d, want 1 after full hold", got)
	}
}
