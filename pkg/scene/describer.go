package scene

import (
	"strings"
	"time"

	"github.com/sightlinelabs/go-sightline/pkg/vision"
)

// Spatial buckets, in the order segments appear in a description.
// The below bucket is computed but never spoken: objects below the
// camera's line of sight are dropped from narration.
const (
	bucketAbove = iota
	bucketInFront
	bucketBelow
	bucketLeft
	bucketRight
	bucketCount
)

// Describer produces debounced natural-language descriptions of a scene.
// One instance owns its state exclusively; calls must not overlap.
type Describer struct {
	cfg   DescriberConfig
	clock Clock
	large map[string]struct{}

	lastTime   time.Time
	lastLabels map[string]struct{}
}

// NewDescriber creates a describer with the given configuration and clock.
func NewDescriber(cfg DescriberConfig, clock Clock) *Describer {
	if clock == nil {
		clock = SystemClock()
	}
	return &Describer{
		cfg:   cfg,
		clock: clock,
		large: toSet(cfg.LargeObjects),
	}
}

// Describe returns a spoken description of the frame, or "" when nothing
// should be said. Repetition is suppressed two ways: a cooldown since the
// last description, and a Jaccard similarity check against the last spoken
// label set. An empty frame yields a fixed phrase and leaves the
// suppression state untouched, so silence does not mask a later scene.
func (d *Describer) Describe(frame []vision.Detection) string {
	now := d.clock.Now()
	current := vision.Labels(frame)

	if now.Sub(d.lastTime) < d.cfg.Cooldown {
		return ""
	}
	if jaccard(current, d.lastLabels) >= d.cfg.SimilarityThreshold {
		return ""
	}

	if len(frame) == 0 {
		return "The scene is empty."
	}

	var buckets [bucketCount][]string
	for _, det := range frame {
		b := d.bucketFor(det)
		buckets[b] = append(buckets[b], det.Label)
	}

	var parts []string
	if len(buckets[bucketAbove]) > 0 {
		parts = append(parts, strings.Join(buckets[bucketAbove], ", ")+" above")
	}
	if len(buckets[bucketInFront]) > 0 {
		parts = append(parts, strings.Join(buckets[bucketInFront], ", ")+" in front")
	}
	if len(buckets[bucketLeft]) > 0 {
		parts = append(parts, strings.Join(buckets[bucketLeft], ", ")+" around the left")
	}
	if len(buckets[bucketRight]) > 0 {
		parts = append(parts, strings.Join(buckets[bucketRight], ", ")+" around the right")
	}

	if len(parts) == 0 {
		return ""
	}

	d.lastTime = now
	d.lastLabels = current

	return "I see " + strings.Join(parts, ", ")
}

// bucketFor classifies a detection into one of the five spatial buckets.
// Large objects fill most of the frame, so they only count as "above"
// when their center is clearly high; everything else splits on the
// vertical thirds, and in-front objects split again left/center/right.
func (d *Describer) bucketFor(det vision.Detection) int {
	cx, cy := det.Box.Center()

	if _, ok := d.large[det.Label]; ok {
		if cy > 0.3 {
			return d.horizontalBucket(cx)
		}
		return bucketAbove
	}

	switch {
	case cy < 0.4:
		return bucketAbove
	case cy > 0.7:
		return bucketBelow
	default:
		return d.horizontalBucket(cx)
	}
}

func (d *Describer) horizontalBucket(cx float64) int {
	switch {
	case cx < 0.4:
		return bucketLeft
	case cx > 0.6:
		return bucketRight
	default:
		return bucketInFront
	}
}

// jaccard returns |a ∩ b| / |a ∪ b|, or 0 when the union is empty.
func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for label := range a {
		if _, ok := b[label]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
