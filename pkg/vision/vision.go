// Package vision provides object detection over camera frames.
package vision

// BBox is a bounding box in normalized image coordinates.
// All values are in [0,1] with X1 < X2 and Y1 < Y2.
type BBox struct {
	X1, Y1, X2, Y2 float64
}

// Center returns the center point of the box.
func (b BBox) Center() (x, y float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// Width returns the normalized box width.
func (b BBox) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the normalized box height.
func (b BBox) Height() float64 {
	return b.Y2 - b.Y1
}

// Area returns the normalized box area.
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// Detection represents one recognized object in a frame.
type Detection struct {
	Label      string  // COCO class name
	Confidence float64 // Detection confidence (0-1)
	Box        BBox    // Normalized corner-format bounding box
}

// Detector is the interface for object detection backends.
type Detector interface {
	// Detect finds objects in a JPEG image.
	Detect(jpeg []byte) ([]Detection, error)

	// Close releases resources.
	Close() error
}

// Labels returns the set of labels present in a frame.
func Labels(dets []Detection) map[string]struct{} {
	set := make(map[string]struct{}, len(dets))
	for _, d := range dets {
		set[d.Label] = struct{}{}
	}
	return set
}

// Contains reports whether any detection carries the given label.
func Contains(dets []Detection, label string) bool {
	for _, d := range dets {
		if d.Label == label {
			return true
		}
	}
	return false
}
