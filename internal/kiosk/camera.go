package kiosk

import (
	"errors"

	"gocv.io/x/gocv"
)

const (
	cameraWidth  = 640
	cameraHeight = 480
)

var ErrNoFrame = errors.New("no frame from camera")

// FrameSource yields PNG-encoded camera frames. PNG keeps the captured frame
// byte-identical between what the tracker judged and what gets submitted.
type FrameSource interface {
	ReadFrame() ([]byte, error)
	Close() error
}

type camera struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// OpenCamera opens the webcam at deviceID, capped at 640x480 so the tracker
// sees the same frame geometry the browser client used to send.
func OpenCamera(deviceID int) (FrameSource, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, cameraWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, cameraHeight)

	return &camera{
		capture: capture,
		mat:     gocv.NewMat(),
	}, nil
}

func (c *camera) ReadFrame() ([]byte, error) {
	if ok := c.capture.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, ErrNoFrame
	}

	buf, err := gocv.IMEncode(".png", c.mat)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	// Copy out: the buffer is invalid after Close.
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())

	return data, nil
}

func (c *camera) Close() error {
	c.mat.Close()
	return c.capture.Close()
}
