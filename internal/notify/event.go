package notify

import (
	"fmt"
	"time"

	"github.com/five82/reclamos/internal/status"
)

// DefaultActor is recorded when the caller does not know who made the change.
const DefaultActor = "Operador"

// Event is a single observed status transition. Only Read changes after
// creation.
type Event struct {
	ID           string
	SubjectID    string
	SubjectLabel string // snapshot taken at record time
	Previous     status.Status
	Next         status.Status
	OccurredAt   time.Time
	Actor        string
	Read         bool
}

// Summary renders a one-line description for lists and logs.
func (e Event) Summary() string {
	label := e.SubjectLabel
	if label == "" {
		label = e.SubjectID
	}
	return fmt.Sprintf("%s: %s → %s", label, e.Previous.Label(), e.Next.Label())
}

func (e Event) sameTransition(subjectID string, prev, next status.Status) bool {
	return e.SubjectID == subjectID && e.Previous == prev && e.Next == next
}

func cloneEvents(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	return out
}
