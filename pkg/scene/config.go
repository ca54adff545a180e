// Package scene turns a noisy per-tick stream of object detections into a
// calm stream of human-consumable messages. It provides two independent
// state machines over the same input: Describer produces a debounced
// spatial description of the scene, Watchdog produces a severity-tagged
// alert feed reacting to appearance, disappearance and persistence of
// security-relevant objects. Neither engine performs I/O; callers feed one
// engine per tick and hand the output to a speaker or display.
package scene

import "time"

// DescriberConfig holds tunable parameters for the spatial describer.
type DescriberConfig struct {
	// Cooldown is the minimum time between two spoken descriptions.
	Cooldown time.Duration

	// SimilarityThreshold suppresses a description when the Jaccard
	// similarity between the current and last spoken label sets is at
	// least this value (0-1).
	SimilarityThreshold float64

	// LargeObjects are labels classified with the large-object vertical
	// rule: they only count as "above" when clearly high in the frame.
	LargeObjects []string
}

// DefaultDescriberConfig returns the recommended describer settings.
func DefaultDescriberConfig() DescriberConfig {
	return DescriberConfig{
		Cooldown:            5 * time.Second,
		SimilarityThreshold: 0.7,
		LargeObjects: []string{
			"refrigerator", "oven", "microwave", "tv", "monitor",
			"bed", "couch", "chair", "table", "desk", "bookshelf",
			"cabinet", "shelf", "counter", "bench", "sofa",
		},
	}
}

// WatchdogConfig holds tunable parameters for the watchdog.
type WatchdogConfig struct {
	// Cooldown is the minimum time between repeated alerts for the same
	// appearance or removal key.
	Cooldown time.Duration

	// EmptySceneCooldown is the minimum time between "scene is clear"
	// announcements.
	EmptySceneCooldown time.Duration

	// MinConfidence filters detections before any state is updated (0-1).
	MinConfidence float64

	// MinPersistence is how long a label must be continuously present
	// before it counts as persistent.
	MinPersistence time.Duration

	// ImportantObjects are labels eligible for appearance/removal alerts.
	ImportantObjects []string
}

// DefaultWatchdogConfig returns the recommended watchdog settings.
func DefaultWatchdogConfig() WatchdogConfig {
	return WatchdogConfig{
		Cooldown:           5 * time.Second,
		EmptySceneCooldown: 30 * time.Second,
		MinConfidence:      0.5,
		MinPersistence:     10 * time.Second,
		ImportantObjects: []string{
			"laptop", "cell phone", "backpack", "handbag", "suitcase",
			"person", "bicycle", "car", "motorcycle",
		},
	}
}

// ToggleConfig holds parameters for the watchdog-mode toggle.
type ToggleConfig struct {
	// Trigger is the label whose appearance flips the mode.
	Trigger string

	// Cooldown is the minimum time between two mode flips.
	Cooldown time.Duration
}

// DefaultToggleConfig returns the recommended toggle settings.
func DefaultToggleConfig() ToggleConfig {
	return ToggleConfig{
		Trigger:  "bottle",
		Cooldown: 2 * time.Second,
	}
}

func toSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}
