package metrics

import "time"

// AnnouncementEvent records one job announcement.
type AnnouncementEvent struct {
	OrderID       string
	RestaurantRef string
	RewardEUR     float64
	Time          time.Time
}

// AssignmentEvent records one auction outcome.
type AssignmentEvent struct {
	OrderID    string
	CourierID  string
	ETAMinutes int
	RewardEUR  float64
	Bids       int
	Fallback   bool
	Time       time.Time
}

// Sink records auction events for observability purposes.
type Sink interface {
	RecordAnnouncement(ev AnnouncementEvent) error
	RecordAssignment(ev AssignmentEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordAnnouncement(AnnouncementEvent) error { return nil }
func (NopSink) RecordAssignment(AssignmentEvent) error     { return nil }

// MultiSink fans events out to several sinks, returning the first error.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a MultiSink.
func NewMultiSink(sinks ...Sink) *MultiSink { return &MultiSink{sinks: sinks} }

func (m *MultiSink) RecordAnnouncement(ev AnnouncementEvent) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordAnnouncement(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) RecordAssignment(ev AssignmentEvent) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordAssignment(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
