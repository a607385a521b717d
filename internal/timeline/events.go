package timeline

import "sort"

// EventType classifies a recorded mouse event.
type EventType string

const (
	EventClick  EventType = "click"
	EventMove   EventType = "move"
	EventScroll EventType = "scroll"
)

// MouseEvent is one entry in the recorded event log. Coordinates are in
// source pixel space, relative to the captured screen. Time is seconds from
// the start of the recording.
type MouseEvent struct {
	Time      float64
	X         float64
	Y         float64
	Type      EventType
	Pressed   bool
	CursorKey string
}

// EventLog is the recorded mouse-event timeline, ordered by Time.
// It is immutable once recording finishes.
type EventLog struct {
	events []MouseEvent
}

// NewEventLog sorts evs by time and wraps them in a log.
func NewEventLog(evs []MouseEvent) *EventLog {
	sorted := make([]MouseEvent, len(evs))
	copy(sorted, evs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return &EventLog{events: sorted}
}

// Len returns the number of recorded events.
func (l *EventLog) Len() int { return len(l.events) }

// All returns the underlying ordered slice. Callers must not modify it.
func (l *EventLog) All() []MouseEvent { return l.events }

// IndexAt returns the index of the last event at or before t, or -1.
func (l *EventLog) IndexAt(t float64) int {
	return sort.Search(len(l.events), func(i int) bool { return l.events[i].Time > t }) - 1
}

// LastAt returns the last event at or before t.
func (l *EventLog) LastAt(t float64) (MouseEvent, bool) {
	i := l.IndexAt(t)
	if i < 0 {
		return MouseEvent{}, false
	}
	return l.events[i], true
}

// Between returns the events with Time in [from, to). The returned slice
// aliases the log and must not be modified.
func (l *EventLog) Between(from, to float64) []MouseEvent {
	lo := sort.Search(len(l.events), func(i int) bool { return l.events[i].Time >= from })
	hi := sort.Search(len(l.events), func(i int) bool { return l.events[i].Time >= to })
	return l.events[lo:hi]
}

// LastClickAt returns the most recent pressed click at or before t.
func (l *EventLog) LastClickAt(t float64) (MouseEvent, bool) {
	for i := l.IndexAt(t); i >= 0; i-- {
		ev := l.events[i]
		if ev.Type == EventClick && ev.Pressed {
			return ev, true
		}
	}
	return MouseEvent{}, false
}
