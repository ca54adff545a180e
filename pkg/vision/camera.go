package vision

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// FrameSource captures JPEG frames from a video device.
type FrameSource interface {
	CaptureJPEG() ([]byte, error)
}

// Camera is a webcam frame source backed by an OpenCV capture device.
// Methods are safe for a single owner; the capture handle itself is not
// shared between goroutines.
type Camera struct {
	cap *gocv.VideoCapture
	buf gocv.Mat
	mu  sync.Mutex
}

// OpenCamera opens a webcam by device ID and applies the requested
// capture resolution. Width/height of 0 keep the device defaults.
func OpenCamera(deviceID, width, height int) (*Camera, error) {
	cap, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", deviceID, err)
	}

	if width > 0 {
		cap.Set(gocv.VideoCaptureFrameWidth, float64(width))
	}
	if height > 0 {
		cap.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}

	return &Camera{
		cap: cap,
		buf: gocv.NewMat(),
	}, nil
}

// Read grabs the next frame into dst. Returns false when the device
// produced no frame.
func (c *Camera) Read(dst *gocv.Mat) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cap.Read(dst) && !dst.Empty()
}

// CaptureJPEG grabs a frame and encodes it as JPEG.
func (c *Camera) CaptureJPEG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.cap.Read(&c.buf); !ok || c.buf.Empty() {
		return nil, fmt.Errorf("camera: no frame")
	}

	encoded, err := gocv.IMEncode(gocv.JPEGFileExt, c.buf)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer encoded.Close()

	out := make([]byte, len(encoded.GetBytes()))
	copy(out, encoded.GetBytes())
	return out, nil
}

// Close releases the capture device.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Close()
	return c.cap.Close()
}

// Verify Camera implements FrameSource at compile time.
var _ FrameSource = (*Camera)(nil)
