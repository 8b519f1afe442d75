package core

import "github.com/pkg/errors"

// EventKind is the kind of version-control event that can start a run.
type EventKind string

const (
	EventPush        EventKind = "push"
	EventPullRequest EventKind = "pull_request"
)

// ParseEventKind validates an event kind received from the outside.
func ParseEventKind(s string) (EventKind, error) {
	switch EventKind(s) {
	case EventPush, EventPullRequest:
		return EventKind(s), nil
	}
	return "", errors.Errorf("unknown event kind %q", s)
}

// Trigger is the event that requests a pipeline run. It is delivered
// by the version-control host and consumed once.
type Trigger struct {
	Event  EventKind `json:"event"`
	Branch string    `json:"branch"`
}

// Matches reports whether the trigger's branch is on the pipeline's
// allow-list. Comparison is by exact string match.
func (p *Pipeline) Matches(trg Trigger) bool {
	for _, b := range p.Branches {
		if b == trg.Branch {
			return true
		}
	}
	return false
}
