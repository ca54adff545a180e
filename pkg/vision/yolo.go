package vision

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// YOLOConfig holds YOLO detector configuration.
type YOLOConfig struct {
	ModelPath        string  // Path to YOLOv8 ONNX model
	ConfidenceThresh float32 // Minimum confidence (default 0.5)
	NMSThresh        float32 // Non-maximum suppression threshold
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultYOLOConfig returns production defaults for YOLOv8n.
func DefaultYOLOConfig() YOLOConfig {
	return YOLOConfig{
		ModelPath:        "models/yolov8n.onnx",
		ConfidenceThresh: 0.5,
		NMSThresh:        0.45,
		InputWidth:       640,
		InputHeight:      640,
	}
}

// YOLODetector runs YOLOv8 object detection via the OpenCV DNN module.
type YOLODetector struct {
	net       gocv.Net
	config    YOLOConfig
	inputSize image.Point
	mu        sync.Mutex
}

// NewYOLO loads a YOLOv8 ONNX model and returns a detector.
func NewYOLO(cfg YOLOConfig) (*YOLODetector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("load YOLO model %s: empty network", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &YOLODetector{
		net:       net,
		config:    cfg,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

// Detect finds objects in the JPEG image. Boxes in the result are
// normalized corner-format coordinates, clamped to [0,1].
func (d *YOLODetector) Detect(jpeg []byte) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("decode image: empty frame")
	}

	blob := gocv.BlobFromImage(img, 1.0/255.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	return d.parseOutput(output, float32(img.Cols()), float32(img.Rows())), nil
}

// parseOutput parses the YOLOv8 output tensor.
// Output shape: [1, 84, 8400] - 84 = 4 bbox values + 80 class scores.
func (d *YOLODetector) parseOutput(output gocv.Mat, imgW, imgH float32) []Detection {
	rows := output.Cols() // candidate detections
	cols := output.Rows() // 4 bbox + 80 classes

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil
	}

	var boxes []image.Rectangle
	var confidences []float32
	var classIDs []int

	for i := 0; i < rows; i++ {
		// Best class score for this candidate (scores start at index 4)
		maxScore := float32(0)
		maxClassID := 0
		for c := 4; c < cols; c++ {
			if score := data[c*rows+i]; score > maxScore {
				maxScore = score
				maxClassID = c - 4
			}
		}

		if maxScore < d.config.ConfidenceThresh {
			continue
		}

		// Center-format box in model input coordinates
		cx := data[0*rows+i]
		cy := data[1*rows+i]
		w := data[2*rows+i]
		h := data[3*rows+i]

		x1 := int((cx - w/2) * imgW / float32(d.config.InputWidth))
		y1 := int((cy - h/2) * imgH / float32(d.config.InputHeight))
		x2 := int((cx + w/2) * imgW / float32(d.config.InputWidth))
		y2 := int((cy + h/2) * imgH / float32(d.config.InputHeight))

		boxes = append(boxes, image.Rect(x1, y1, x2, y2))
		confidences = append(confidences, maxScore)
		classIDs = append(classIDs, maxClassID)
	}

	if len(boxes) == 0 {
		return nil
	}

	indices := gocv.NMSBoxes(boxes, confidences, d.config.ConfidenceThresh, d.config.NMSThresh)

	detections := make([]Detection, 0, len(indices))
	for _, idx := range indices {
		box := boxes[idx]
		detections = append(detections, Detection{
			Label:      COCOClasses[classIDs[idx]],
			Confidence: float64(confidences[idx]),
			Box: BBox{
				X1: clamp01(float64(box.Min.X) / float64(imgW)),
				Y1: clamp01(float64(box.Min.Y) / float64(imgH)),
				X2: clamp01(float64(box.Max.X) / float64(imgW)),
				Y2: clamp01(float64(box.Max.Y) / float64(imgH)),
			},
		})
	}

	return detections
}

// Close releases the detector resources.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
