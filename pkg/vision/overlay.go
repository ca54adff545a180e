package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Overlay colors.
var (
	overlayGreen = color.RGBA{G: 255, A: 255}
	overlayRed   = color.RGBA{R: 255, A: 255}
	overlayWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// DrawOverlay renders detections onto a frame: a box and label per
// detection, a banner with the current mode, and the toggle hint.
// The trigger label is drawn in red so it is easy to aim at the camera.
func DrawOverlay(img *gocv.Mat, dets []Detection, trigger string, watchdog bool) {
	w := float64(img.Cols())
	h := float64(img.Rows())

	for _, d := range dets {
		rect := image.Rect(
			int(d.Box.X1*w), int(d.Box.Y1*h),
			int(d.Box.X2*w), int(d.Box.Y2*h),
		)

		boxColor := overlayGreen
		if d.Label == trigger {
			boxColor = overlayRed
		}

		gocv.Rectangle(img, rect, boxColor, 2)

		label := fmt.Sprintf("%s: %.2f", d.Label, d.Confidence)
		gocv.PutText(img, label, image.Pt(rect.Min.X, rect.Min.Y-10),
			gocv.FontHersheySimplex, 0.5, boxColor, 2)
	}

	mode := "Narrate Mode"
	if watchdog {
		mode = "Watchdog Mode"
	}
	gocv.PutText(img, mode, image.Pt(10, 30),
		gocv.FontHersheySimplex, 1, overlayGreen, 2)

	hint := fmt.Sprintf("Show %s to toggle mode", trigger)
	gocv.PutText(img, hint, image.Pt(10, img.Rows()-20),
		gocv.FontHersheySimplex, 0.5, overlayWhite, 2)
}
