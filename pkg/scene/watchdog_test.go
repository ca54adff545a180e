package scene

import (
	"reflect"
	"testing"
	"time"

	"github.com/sightlinelabs/go-sightline/pkg/vision"
)

func newTestWatchdog() (*Watchdog, *ManualClock) {
	clock := NewManualClock(base)
	return NewWatchdog(DefaultWatchdogConfig(), clock), clock
}

func frame(labels ...string) []vision.Detection {
	dets := make([]vision.Detection, len(labels))
	for i, l := range labels {
		dets[i] = det(l, 0.9, 0.4, 0.4, 0.6, 0.6)
	}
	return dets
}

func messages(alerts []Alert) []string {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]string, len(alerts))
	for i, a := range alerts {
		msgs[i] = a.Message
	}
	return msgs
}

func TestWatchdog_FirstFramePerson(t *testing.T) {
	w, _ := newTestWatchdog()

	alerts := w.Process(frame("person"))
	if len(alerts) != 1 {
		t.Fatalf("Process = %d alerts, want 1", len(alerts))
	}
	if alerts[0].Level != LevelAlert {
		t.Errorf("Level = %v, want %v", alerts[0].Level, LevelAlert)
	}
	if alerts[0].Message != "Person detected in the scene." {
		t.Errorf("Message = %q", alerts[0].Message)
	}
}

func TestWatchdog_FirstFrameWithoutPerson(t *testing.T) {
	w, _ := newTestWatchdog()

	if alerts := w.Process(frame("chair")); len(alerts) != 0 {
		t.Errorf("Process = %v, want no alerts", messages(alerts))
	}
}

func TestWatchdog_EmptySceneCooldown(t *testing.T) {
	w, clock := newTestWatchdog()

	alerts := w.Process(nil)
	if len(alerts) != 1 || alerts[0].Level != LevelInfo || alerts[0].Message != "Scene is clear." {
		t.Fatalf("first empty frame = %v, want one info alert", alerts)
	}

	// Second empty frame within the cooldown stays quiet.
	clock.Advance(5 * time.Second)
	if alerts := w.Process(nil); len(alerts) != 0 {
		t.Errorf("empty frame within cooldown = %v, want none", messages(alerts))
	}

	// After the cooldown the announcement repeats.
	clock.Advance(30 * time.Second)
	if alerts := w.Process(nil); len(alerts) != 1 {
		t.Errorf("empty frame after cooldown = %v, want one alert", messages(alerts))
	}
}

// An empty scene short-circuits change detection: clearing the scene emits
// only the empty-scene info, never removal warnings, and the previous
// snapshot survives for the next occupied frame.
func TestWatchdog_EmptySceneShortCircuitsRemoval(t *testing.T) {
	w, clock := newTestWatchdog()

	w.Process(frame("laptop"))

	clock.Advance(1 * time.Second)
	alerts := w.Process(nil)
	want := []string{"Scene is clear."}
	if !reflect.DeepEqual(messages(alerts), want) {
		t.Fatalf("alerts = %v, want %v", messages(alerts), want)
	}

	// The laptop was never reported removed and is still in the stale
	// snapshot, so its return produces no new-object alert either.
	clock.Advance(10 * time.Second)
	if alerts := w.Process(frame("laptop")); len(alerts) != 0 {
		t.Errorf("alerts after laptop returned = %v, want none", messages(alerts))
	}
}

func TestWatchdog_NewAndRemovedImportantObjects(t *testing.T) {
	w, clock := newTestWatchdog()

	w.Process(frame("chair"))

	clock.Advance(1 * time.Second)
	alerts := w.Process(frame("chair", "laptop"))
	want := []string{"New laptop detected in the scene."}
	if !reflect.DeepEqual(messages(alerts), want) {
		t.Fatalf("alerts = %v, want %v", messages(alerts), want)
	}
	if alerts[0].Level != LevelAlert {
		t.Errorf("Level = %v, want %v", alerts[0].Level, LevelAlert)
	}

	clock.Advance(6 * time.Second)
	alerts = w.Process(frame("chair"))
	want = []string{"Laptop has been removed from the scene."}
	if !reflect.DeepEqual(messages(alerts), want) {
		t.Fatalf("alerts = %v, want %v", messages(alerts), want)
	}
	if alerts[0].Level != LevelWarning {
		t.Errorf("Level = %v, want %v", alerts[0].Level, LevelWarning)
	}
}

func TestWatchdog_AlertCooldownPerKey(t *testing.T) {
	w, clock := newTestWatchdog()

	w.Process(frame("chair"))

	clock.Advance(1 * time.Second)
	w.Process(frame("chair", "laptop")) // fires "new laptop", stamps cooldown

	clock.Advance(1 * time.Second)
	w.Process(frame("chair")) // removal fires on its own key

	// The laptop reappears two seconds after its last new-object alert:
	// within the five second cooldown, so nothing fires.
	clock.Advance(1 * time.Second)
	if alerts := w.Process(frame("chair", "laptop")); len(alerts) != 0 {
		t.Errorf("alerts within cooldown = %v, want none", messages(alerts))
	}
}

func TestWatchdog_RepeatedFrameIsQuiet(t *testing.T) {
	w, clock := newTestWatchdog()

	w.Process(frame("laptop", "chair"))

	clock.Advance(1 * time.Second)
	if alerts := w.Process(frame("laptop", "chair")); len(alerts) != 0 {
		t.Errorf("repeated frame = %v, want no alerts", messages(alerts))
	}
}

// A person appearing in a later frame trips both the new-object path and
// the standalone person path in the same call. The duplication is part of
// the contract.
func TestWatchdog_DuplicatePersonAlert(t *testing.T) {
	w, clock := newTestWatchdog()

	w.Process(frame("chair"))

	clock.Advance(1 * time.Second)
	alerts := w.Process(frame("chair", "person"))
	want := []string{
		"New person detected in the scene.",
		"Person detected in the scene.",
	}
	if !reflect.DeepEqual(messages(alerts), want) {
		t.Errorf("alerts = %v, want %v", messages(alerts), want)
	}
}

func TestWatchdog_EmissionOrder(t *testing.T) {
	w, clock := newTestWatchdog()

	w.Process(frame("backpack"))

	clock.Advance(1 * time.Second)
	alerts := w.Process(frame("laptop", "person"))
	want := []string{
		"New laptop detected in the scene.",
		"New person detected in the scene.",
		"Backpack has been removed from the scene.",
		"Person detected in the scene.",
	}
	if !reflect.DeepEqual(messages(alerts), want) {
		t.Errorf("alerts = %v, want %v", messages(alerts), want)
	}
}

func TestWatchdog_MinConfidenceFilter(t *testing.T) {
	w, clock := newTestWatchdog()

	w.Process(frame("chair"))

	// A low-confidence laptop never enters the scene state.
	clock.Advance(1 * time.Second)
	dets := append(frame("chair"), det("laptop", 0.4, 0.1, 0.1, 0.3, 0.3))
	if alerts := w.Process(dets); len(alerts) != 0 {
		t.Errorf("alerts = %v, want none", messages(alerts))
	}
}

func TestWatchdog_PersistencePromotion(t *testing.T) {
	w, clock := newTestWatchdog()

	w.Process(frame("cup"))
	if got := w.Persistent(); len(got) != 0 {
		t.Fatalf("Persistent after first sighting = %v, want empty", got)
	}

	clock.Advance(10 * time.Second)
	w.Process(frame("cup"))
	if got := w.Persistent(); !reflect.DeepEqual(got, []string{"cup"}) {
		t.Fatalf("Persistent = %v, want [cup]", got)
	}

	// One tick of absence purges both the timer and the persistent set.
	clock.Advance(1 * time.Second)
	w.Process(nil)
	if got := w.Persistent(); len(got) != 0 {
		t.Fatalf("Persistent after absence = %v, want empty", got)
	}

	// The timer restarted from scratch: five seconds is not enough.
	clock.Advance(1 * time.Second)
	w.Process(frame("cup"))
	clock.Advance(5 * time.Second)
	w.Process(frame("cup"))
	if got := w.Persistent(); len(got) != 0 {
		t.Errorf("Persistent after restart = %v, want empty", got)
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelInfo, "INFO"},
		{LevelWarning, "WARNING"},
		{LevelAlert, "ALERT"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}
