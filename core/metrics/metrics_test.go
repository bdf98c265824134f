package metrics

import (
	"errors"
	"testing"
)

type recordingSink struct {
	announcements int
	assignments   int
	err           error
}

func (s *recordingSink) RecordAnnouncement(AnnouncementEvent) error {
	s.announcements++
	return s.err
}

func (s *recordingSink) RecordAssignment(AssignmentEvent) error {
	s.assignments++
	return s.err
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	m := NewMultiSink(a, b)

	if err := m.RecordAnnouncement(AnnouncementEvent{OrderID: "order-1"}); err != nil {
		t.Fatalf("RecordAnnouncement: %v", err)
	}
	if err := m.RecordAssignment(AssignmentEvent{OrderID: "order-1"}); err != nil {
		t.Fatalf("RecordAssignment: %v", err)
	}
	if a.announcements != 1 || b.announcements != 1 || a.assignments != 1 || b.assignments != 1 {
		t.Fatalf("events not fanned out: %+v %+v", a, b)
	}
}

func TestMultiSinkReturnsFirstErrorButRecordsAll(t *testing.T) {
	errA := errors.New("sink a down")
	a := &recordingSink{err: errA}
	b := &recordingSink{err: errors.New("sink b down")}
	m := NewMultiSink(a, b)

	if err := m.RecordAnnouncement(AnnouncementEvent{}); !errors.Is(err, errA) {
		t.Fatalf("err = %v, want the first sink's error", err)
	}
	if b.announcements != 1 {
		t.Fatal("second sink skipped after the first error")
	}
}
