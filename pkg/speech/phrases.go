package speech

import (
	"fmt"
	"math/rand"
	"time"
)

// detectionPhrases add spoken variety to single-object announcements.
var detectionPhrases = []string{
	"I see a %s",
	"There's a %s",
	"I can see a %s",
	"I've detected a %s",
}

// Announcer phrases object announcements with some variety. The random
// source is injected so tests can fix the seed and assert exact output.
type Announcer struct {
	rng *rand.Rand
}

// NewAnnouncer creates an announcer. A nil rng gets a time-seeded source.
func NewAnnouncer(rng *rand.Rand) *Announcer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Announcer{rng: rng}
}

// Detection returns a spoken announcement for one detected object.
func (a *Announcer) Detection(label string) string {
	return fmt.Sprintf(detectionPhrases[a.rng.Intn(len(detectionPhrases))], label)
}
