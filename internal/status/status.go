// Package status defines the closed set of complaint states shared by the
// backend client, the notification store and the UI.
package status

import "strings"

// Status is a complaint lifecycle state as the backend spells it.
type Status string

const (
	Urgent     Status = "URGENTE"
	Waiting    Status = "ESPERA"
	InProgress Status = "EN_PROCESO"
	Done       Status = "LISTO"
)

var all = []Status{Urgent, Waiting, InProgress, Done}

var labels = map[Status]string{
	Urgent:     "Urgente",
	Waiting:    "En espera",
	InProgress: "En proceso",
	Done:       "Listo",
}

// All returns every known status in display order.
func All() []Status {
	out := make([]Status, len(all))
	copy(out, all)
	return out
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	_, ok := labels[s]
	return ok
}

// Label returns the operator-facing name, or the raw value for unknown states.
func (s Status) Label() string {
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

// Rank orders statuses for display: urgent first, done last.
func (s Status) Rank() int {
	for i, candidate := range all {
		if candidate == s {
			return i
		}
	}
	return len(all)
}

// Parse accepts the wire value in any case, with spaces or dashes in place of
// underscores. ok is false when nothing matches.
func Parse(value string) (Status, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	s := Status(normalized)
	return s, s.Valid()
}

// Next cycles through the known states, wrapping after Done. Unknown states
// restart the cycle.
func (s Status) Next() Status {
	if !s.Valid() {
		return all[0]
	}
	return all[(s.Rank()+1)%len(all)]
}
