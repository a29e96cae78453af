package main

import (
	"ProjectPalm/internal/kiosk"
	"ProjectPalm/pkg/log"
	websocketPkg "ProjectPalm/pkg/websocket"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	frameInterval     = 100 * time.Millisecond
	resultDisplayTime = 15 * time.Second
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	baseURL := os.Getenv("PALM_SERVER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	deviceID := 0
	if raw := os.Getenv("PALM_CAMERA_DEVICE"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			logger.Fatalf("Invalid PALM_CAMERA_DEVICE %q: %v", raw, err)
		}
		deviceID = id
	}

	masterType := os.Getenv("PALM_MASTER_TYPE")
	language := os.Getenv("PALM_LANGUAGE")

	tracker := websocketPkg.NewHandTrackerClient()
	defer tracker.Close()

	detector := kiosk.NewTrackerDetector(logger, tracker)
	client := kiosk.NewFortuneClient(logger, baseURL)
	session := kiosk.NewSession(logger, detector, client, masterType, language)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Infof("Kiosk started, talking to %s", baseURL)

	for {
		camera, err := kiosk.OpenCamera(deviceID)
		if err != nil {
			logger.Fatalf("Failed to open camera %d: %v", deviceID, err)
		}

		logger.Info("Show your palm to the camera and hold still")

		if !runReading(session, camera, sigChan, logger) {
			camera.Close()
			logger.Info("Shutting down kiosk...")
			return
		}

		// Camera and tracker both rest while the result is on screen;
		// the tracker re-dials on demand next session.
		camera.Close()
		tracker.Close()
		showResult(session, logger)

		select {
		case <-sigChan:
			logger.Info("Shutting down kiosk...")
			return
		case <-time.After(resultDisplayTime):
		}

		session.Reset()
	}
}

// runReading pumps camera frames into the session until a reading lands.
// Returns false when a shutdown signal arrived instead.
func runReading(session *kiosk.Session, camera kiosk.FrameSource, sigChan chan os.Signal, logger *logrus.Logger) bool {
	for session.Phase() != kiosk.PhaseResultShown {
		select {
		case <-sigChan:
			return false
		default:
		}

		frame, err := camera.ReadFrame()
		if err != nil {
			logger.Warnf("Camera frame failed: %v", err)
			time.Sleep(frameInterval)
			continue
		}

		session.HandleFrame(frame, time.Now())
		time.Sleep(frameInterval)
	}

	return true
}

func showResult(session *kiosk.Session, logger *logrus.Logger) {
	text, err := session.Result()
	if err != nil {
		if errors.Is(err, kiosk.ErrServiceOverloaded) {
			logger.Info("Thầy bói đang bận, vui lòng thử lại sau ít phút 🔮")
		} else {
			logger.Errorf("Reading failed: %v", err)
		}
		return
	}

	logger.Infof("🔮 %s", text)
}
