package eventlog

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestFIFOOrder(t *testing.T) {
	l := New()
	l.Append("a")
	l.Append("b")
	l.Append("c")

	for _, want := range []string{"a", "b", "c"} {
		ev, ok := l.TryNext()
		if !ok || ev.Text != want {
			t.Fatalf("want %q, got %q (ok=%v)", want, ev.Text, ok)
		}
		if ev.Timestamp.IsZero() {
			t.Fatalf("event missing timestamp")
		}
	}
	if _, ok := l.TryNext(); ok {
		t.Fatalf("drained log yielded an event")
	}
}

func TestNextBlocksUntilAppend(t *testing.T) {
	l := New()
	done := make(chan Event, 1)
	go func() {
		ev, _ := l.Next()
		done <- ev
	}()

	select {
	case <-done:
		t.Fatalf("Next returned before any event was appended")
	case <-time.After(20 * time.Millisecond):
	}

	l.Append("wake")
	select {
	case ev := <-done:
		if ev.Text != "wake" {
			t.Fatalf("unexpected event: %q", ev.Text)
		}
	case <-time.After(time.Second):
		t.Fatalf("Next did not wake on append")
	}
}

func TestConcurrentProducersNeverBlock(t *testing.T) {
	l := New()
	const producers, per = 10, 100
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				l.Appendf("p%d-%d", p, i)
			}
		}(p)
	}
	wg.Wait()

	if got := l.Len(); got != producers*per {
		t.Fatalf("want %d queued events, got %d", producers*per, got)
	}

	// Per-producer order survives interleaving.
	seen := make(map[int]int)
	for {
		ev, ok := l.TryNext()
		if !ok {
			break
		}
		var p, i int
		if _, err := fmt.Sscanf(ev.Text, "p%d-%d", &p, &i); err != nil {
			t.Fatalf("bad event %q: %v", ev.Text, err)
		}
		if i != seen[p] {
			t.Fatalf("producer %d out of order: want %d, got %d", p, seen[p], i)
		}
		seen[p]++
	}
}

func TestCloseDrainsThenStops(t *testing.T) {
	l := New()
	l.Append("last")
	l.Close()
	l.Append("dropped after close")

	ev, ok := l.Next()
	if !ok || ev.Text != "last" {
		t.Fatalf("queued event lost on close: %v %v", ev, ok)
	}
	if _, ok := l.Next(); ok {
		t.Fatalf("closed log yielded extra event")
	}
}
