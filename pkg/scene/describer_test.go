package scene

import (
	"testing"
	"time"

	"github.com/sightlinelabs/go-sightline/pkg/vision"
)

// base is far from the zero time so never-fired cooldowns read as long
// since elapsed, matching a real clock.
var base = time.Unix(1_000_000, 0).UTC()

func det(label string, conf, x1, y1, x2, y2 float64) vision.Detection {
	return vision.Detection{
		Label:      label,
		Confidence: conf,
		Box:        vision.BBox{X1: x1, Y1: y1, X2: x2, Y2: y2},
	}
}

func newTestDescriber() (*Describer, *ManualClock) {
	clock := NewManualClock(base)
	return NewDescriber(DefaultDescriberConfig(), clock), clock
}

func TestJaccard(t *testing.T) {
	set := func(labels ...string) map[string]struct{} {
		s := make(map[string]struct{})
		for _, l := range labels {
			s[l] = struct{}{}
		}
		return s
	}

	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"identical sets", set("cup", "chair"), set("cup", "chair"), 1.0},
		{"empty prior set", set("cup"), set(), 0},
		{"both empty", set(), set(), 0},
		{"half overlap", set("cup", "chair"), set("cup", "bottle"), 1.0 / 3.0},
		{"disjoint", set("cup"), set("chair"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jaccard(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("jaccard = %v, want %v", got, tt.want)
			}
			// Jaccard is symmetric.
			if rev := jaccard(tt.b, tt.a); rev != got {
				t.Errorf("jaccard not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestDescriber_SpatialBuckets(t *testing.T) {
	tests := []struct {
		name string
		det  vision.Detection
		want string
	}{
		{
			// chair is a large object: center_y 0.7 > 0.3 keeps it out
			// of "above", then center_x 0.2 puts it on the left.
			name: "large object low in frame",
			det:  det("chair", 0.8, 0.1, 0.5, 0.3, 0.9),
			want: "I see chair around the left",
		},
		{
			name: "large object centered",
			det:  det("couch", 0.8, 0.4, 0.4, 0.6, 0.9),
			want: "I see couch in front",
		},
		{
			name: "large object high in frame",
			det:  det("tv", 0.8, 0.3, 0.0, 0.7, 0.5),
			want: "I see tv above",
		},
		{
			name: "small object high in frame",
			det:  det("cup", 0.8, 0.1, 0.1, 0.2, 0.2),
			want: "I see cup above",
		},
		{
			name: "small object center right",
			det:  det("bottle", 0.8, 0.7, 0.45, 0.9, 0.6),
			want: "I see bottle around the right",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDescriber()
			got := d.Describe([]vision.Detection{tt.det})
			if got != tt.want {
				t.Errorf("Describe = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescriber_SegmentOrder(t *testing.T) {
	d, _ := newTestDescriber()

	frame := []vision.Detection{
		det("bottle", 0.8, 0.7, 0.45, 0.9, 0.6), // right
		det("cup", 0.8, 0.1, 0.1, 0.2, 0.2),     // above
		det("keyboard", 0.8, 0.45, 0.5, 0.55, 0.6), // in front
	}

	want := "I see cup above, keyboard in front, bottle around the right"
	if got := d.Describe(frame); got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
}

// Objects below the line of sight are classified but never spoken. If the
// whole frame lands in the below bucket, nothing is said and the
// suppression state stays untouched.
func TestDescriber_BelowBucketNotRendered(t *testing.T) {
	d, clock := newTestDescriber()

	below := []vision.Detection{det("cup", 0.8, 0.4, 0.8, 0.6, 0.95)}
	if got := d.Describe(below); got != "" {
		t.Errorf("Describe(below-only) = %q, want \"\"", got)
	}

	// State was not updated, so a frame one second later still speaks.
	clock.Advance(1 * time.Second)
	if got := d.Describe([]vision.Detection{det("bottle", 0.8, 0.1, 0.1, 0.2, 0.2)}); got == "" {
		t.Error("Describe after below-only frame = \"\", want a description")
	}
}

func TestDescriber_EmptyScene(t *testing.T) {
	d, clock := newTestDescriber()

	if got := d.Describe(nil); got != "The scene is empty." {
		t.Errorf("Describe(empty) = %q, want %q", got, "The scene is empty.")
	}

	// The empty branch leaves state untouched: a scene appearing one
	// second later is still described.
	clock.Advance(1 * time.Second)
	if got := d.Describe([]vision.Detection{det("cup", 0.8, 0.1, 0.1, 0.2, 0.2)}); got == "" {
		t.Error("Describe after empty frame = \"\", want a description")
	}
}

func TestDescriber_CooldownSuppression(t *testing.T) {
	d, clock := newTestDescriber()

	if got := d.Describe([]vision.Detection{det("cup", 0.8, 0.1, 0.1, 0.2, 0.2)}); got == "" {
		t.Fatal("first Describe = \"\", want a description")
	}

	// Different labels, but only two seconds later: cooldown wins.
	clock.Advance(2 * time.Second)
	if got := d.Describe([]vision.Detection{det("bottle", 0.8, 0.1, 0.1, 0.2, 0.2)}); got != "" {
		t.Errorf("Describe within cooldown = %q, want \"\"", got)
	}
}

func TestDescriber_SimilaritySuppression(t *testing.T) {
	d, clock := newTestDescriber()

	frame := []vision.Detection{
		det("cup", 0.8, 0.1, 0.1, 0.2, 0.2),
		det("bottle", 0.8, 0.7, 0.1, 0.9, 0.2),
	}

	if got := d.Describe(frame); got == "" {
		t.Fatal("first Describe = \"\", want a description")
	}

	// Within cooldown: suppressed.
	clock.Advance(2 * time.Second)
	if got := d.Describe(frame); got != "" {
		t.Errorf("second Describe = %q, want \"\"", got)
	}

	// Cooldown elapsed but the label set is identical: similarity wins.
	clock.Advance(10 * time.Second)
	if got := d.Describe(frame); got != "" {
		t.Errorf("Describe of identical scene = %q, want \"\"", got)
	}

	// A sufficiently different scene speaks again.
	clock.Advance(10 * time.Second)
	changed := []vision.Detection{
		det("laptop", 0.8, 0.45, 0.5, 0.55, 0.6),
	}
	if got := d.Describe(changed); got == "" {
		t.Error("Describe of changed scene = \"\", want a description")
	}
}
