package debounce

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

type sink struct {
	mu  sync.Mutex
	got []string
	ch  chan struct{}
}

func newSink() *sink { return &sink{ch: make(chan struct{}, 16)} }

func (s *sink) handle(v string) {
	s.mu.Lock()
	s.got = append(s.got, v)
	s.mu.Unlock()
	s.ch <- struct{}{}
}

func (s *sink) values() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.got...)
}

func TestDebouncer_LastEventWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSink()
	d := New(30*time.Millisecond, s.handle)
	defer d.Stop()

	d.Push("a")
	d.Push("b")
	d.Push("c")

	select {
	case <-s.ch:
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}

	// give a stray second delivery a chance to show up
	time.Sleep(60 * time.Millisecond)

	got := s.values()
	if len(got) != 1 || got[0] != "c" {
		t.Errorf("expected single delivery of c, got %v", got)
	}
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSink()
	d := New(10*time.Millisecond, s.handle)
	defer d.Stop()

	d.Push("first")
	<-s.ch
	d.Push("second")
	<-s.ch

	got := s.values()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("got %v", got)
	}
}

func TestDebouncer_Flush(t *testing.T) {
	s := newSink()
	d := New(time.Hour, s.handle)
	defer d.Stop()

	if d.Flush() {
		t.Fatal("flush with nothing pending must report false")
	}

	d.Push("x")
	if !d.Flush() {
		t.Fatal("expected pending value to be flushed")
	}
	if got := s.values(); len(got) != 1 || got[0] != "x" {
		t.Errorf("got %v", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSink()
	d := New(20*time.Millisecond, s.handle)
	d.Push("never")
	d.Stop()
	d.Push("ignored")

	time.Sleep(50 * time.Millisecond)
	if got := s.values(); len(got) != 0 {
		t.Errorf("expected no deliveries after Stop, got %v", got)
	}
}
