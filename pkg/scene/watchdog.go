package scene

import (
	"fmt"
	"sort"
	"time"
	"unicode"

	"github.com/sightlinelabs/go-sightline/pkg/vision"
)

// Level is the severity of a watchdog alert.
type Level int

// Severity levels, lowest first.
const (
	LevelInfo Level = iota
	LevelWarning
	LevelAlert
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelAlert:
		return "ALERT"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Alert is one severity-tagged watchdog message.
type Alert struct {
	Level   Level
	Message string
}

// Object is one observed object in a scene snapshot.
type Object struct {
	Confidence float64
	Box        vision.BBox
}

// sceneState is a confidence-filtered snapshot of one frame.
// Duplicate labels in a frame collapse to the last occurrence.
type sceneState struct {
	objects   map[string]Object
	timestamp time.Time
}

func (s *sceneState) isEmpty() bool { return len(s.objects) == 0 }

const personLabel = "person"

// Watchdog is a state machine over scene snapshots that emits alerts for
// appearance, disappearance and persistence of important objects. One
// instance owns its state exclusively; calls must not overlap.
type Watchdog struct {
	cfg       WatchdogConfig
	clock     Clock
	important map[string]struct{}

	prev           *sceneState
	lastAlert      map[string]time.Time
	lastEmptyAlert time.Time

	firstSeen  map[string]time.Time
	persistent map[string]struct{}
}

// NewWatchdog creates a watchdog with the given configuration and clock.
func NewWatchdog(cfg WatchdogConfig, clock Clock) *Watchdog {
	if clock == nil {
		clock = SystemClock()
	}
	return &Watchdog{
		cfg:        cfg,
		clock:      clock,
		important:  toSet(cfg.ImportantObjects),
		lastAlert:  make(map[string]time.Time),
		firstSeen:  make(map[string]time.Time),
		persistent: make(map[string]struct{}),
	}
}

// Process consumes one frame and returns the alerts it triggers, in order:
// new-object alerts, removed-object alerts, then the standalone person
// alert. The clock is read exactly once per call so every comparison
// inside a call sees the same instant.
func (w *Watchdog) Process(frame []vision.Detection) []Alert {
	now := w.clock.Now()
	current := w.snapshot(frame, now)

	w.updatePersistence(current.objects, now)

	var alerts []Alert

	// An empty scene short-circuits change detection entirely; the last
	// non-empty snapshot stays around, so the next occupied frame is
	// diffed against the scene as it was before it cleared.
	if current.isEmpty() {
		if now.Sub(w.lastEmptyAlert) >= w.cfg.EmptySceneCooldown {
			alerts = append(alerts, Alert{LevelInfo, "Scene is clear."})
			w.lastEmptyAlert = now
		}
		return alerts
	}

	if w.prev == nil {
		w.prev = current
		if _, ok := current.objects[personLabel]; ok {
			alerts = append(alerts, Alert{LevelAlert, "Person detected in the scene."})
		}
		return alerts
	}

	added := missingKeys(current.objects, w.prev.objects)
	removed := missingKeys(w.prev.objects, current.objects)

	if w.anyImportant(added) || w.anyImportant(removed) {
		for _, label := range added {
			if _, ok := w.important[label]; !ok {
				continue
			}
			if now.Sub(w.lastAlert[label]) >= w.cfg.Cooldown {
				alerts = append(alerts, Alert{
					Level:   LevelAlert,
					Message: fmt.Sprintf("New %s detected in the scene.", label),
				})
				w.lastAlert[label] = now
			}
		}

		for _, label := range removed {
			if _, ok := w.important[label]; !ok {
				continue
			}
			key := "removed_" + label
			if now.Sub(w.lastAlert[key]) >= w.cfg.Cooldown {
				alerts = append(alerts, Alert{
					Level:   LevelWarning,
					Message: fmt.Sprintf("%s has been removed from the scene.", capitalize(label)),
				})
				w.lastAlert[key] = now
			}
		}
	}

	// A person entering the scene always alerts, regardless of the
	// significant-change gate. When "person" is also in the important
	// set this duplicates the new-object alert within the same call.
	_, personNow := current.objects[personLabel]
	_, personBefore := w.prev.objects[personLabel]
	if personNow && !personBefore {
		alerts = append(alerts, Alert{LevelAlert, "Person detected in the scene."})
	}

	w.prev = current
	return alerts
}

// Persistent returns the labels currently considered persistent, sorted.
func (w *Watchdog) Persistent() []string {
	labels := make([]string, 0, len(w.persistent))
	for label := range w.persistent {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// snapshot filters a frame to confident detections keyed by label.
func (w *Watchdog) snapshot(frame []vision.Detection, now time.Time) *sceneState {
	objects := make(map[string]Object, len(frame))
	for _, d := range frame {
		if d.Confidence >= w.cfg.MinConfidence {
			objects[d.Label] = Object{Confidence: d.Confidence, Box: d.Box}
		}
	}
	return &sceneState{objects: objects, timestamp: now}
}

// updatePersistence records first-seen times for present labels, promotes
// labels continuously present for MinPersistence, and purges any tracked
// label absent from the current frame. Absence has no grace period.
func (w *Watchdog) updatePersistence(current map[string]Object, now time.Time) {
	for label := range current {
		if first, ok := w.firstSeen[label]; !ok {
			w.firstSeen[label] = now
		} else if now.Sub(first) >= w.cfg.MinPersistence {
			w.persistent[label] = struct{}{}
		}
	}

	for label := range w.firstSeen {
		if _, ok := current[label]; !ok {
			delete(w.firstSeen, label)
			delete(w.persistent, label)
		}
	}
}

// anyImportant reports whether any of the labels is an important object.
func (w *Watchdog) anyImportant(labels []string) bool {
	for _, label := range labels {
		if _, ok := w.important[label]; ok {
			return true
		}
	}
	return false
}

// missingKeys returns the keys of a that are absent from b, sorted so
// alert order within a call is stable.
func missingKeys(a, b map[string]Object) []string {
	var keys []string
	for k := range a {
		if _, ok := b[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// capitalize upper-cases the first rune: "laptop" becomes "Laptop".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
