package trace

import "yasaa/app/saa"

// Replay plays a parsed register log back against a bus.
type Replay struct {
	events []Event
	next   int
}

func NewReplay(events []Event) *Replay {
	return &Replay{events: events}
}

// Step applies every event stamped at or before pos and returns the
// number of samples until the next one. done is set once the log is
// exhausted.
func (r *Replay) Step(bus saa.Bus, pos uint64) (samples uint64, done bool) {
	for r.next < len(r.events) && r.events[r.next].Sample <= pos {
		r.events[r.next].Apply(bus)
		r.next++
	}
	if r.next == len(r.events) {
		return 0, true
	}
	return r.events[r.next].Sample - pos, false
}

// Rewind starts the log over.
func (r *Replay) Rewind() {
	r.next = 0
}

// Length is the sample stamp of the last event.
func (r *Replay) Length() uint64 {
	if len(r.events) == 0 {
		return 0
	}
	return r.events[len(r.events)-1].Sample
}
