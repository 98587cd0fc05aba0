package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEngineStressConcurrentSchedule(t *testing.T) {
	engine := NewEngine(4096)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 200
	total := workers * perWorker

	now := time.Now()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				delay := time.Duration((w+i)%50+10) * time.Millisecond
				ev := Event{
					ID:        fmt.Sprintf("w%d-%d", w, i),
					Kind:      KindNoticeDismiss,
					TriggerAt: now.Add(delay),
				}
				if err := engine.Schedule(ev); err != nil {
					t.Errorf("schedule failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	deadline := time.After(5 * time.Second)
	var received int64
	for atomic.LoadInt64(&received) < int64(total) {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting events: received=%d total=%d dropped=%d", received, total, engine.Dropped())
		case <-engine.C():
			atomic.AddInt64(&received, 1)
		}
	}

	if got := int(received); got != total {
		t.Fatalf("unexpected received count: got=%d want=%d", got, total)
	}
	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got=%d", engine.Dropped())
	}
}

func TestEngineStressReplaceAndCancel(t *testing.T) {
	engine := NewEngine(4096)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 100
	total := workers * perWorker
	id := func(w, i int) string { return fmt.Sprintf("notice-%d-%d", w, i) }

	later := time.Now().Add(500 * time.Millisecond)
	for w := 0; w < workers; w++ {
		for i := 0; i < perWorker; i++ {
			if err := engine.Schedule(Event{ID: id(w, i), Kind: KindNoticeDismiss, TriggerAt: later}); err != nil {
				t.Fatalf("schedule failed: %v", err)
			}
		}
	}

	// Every fourth event is cancelled and every other one is pulled
	// forward, all while the engine is running.
	var cancelled int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				switch i % 4 {
				case 0:
					if engine.Cancel(id(w, i)) {
						atomic.AddInt64(&cancelled, 1)
					}
				case 1, 3:
					ev := Event{ID: id(w, i), Kind: KindGoalEval, TriggerAt: time.Now().Add(time.Duration(i%20+5) * time.Millisecond)}
					if err := engine.Schedule(ev); err != nil {
						t.Errorf("reschedule failed: %v", err)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	want := total - int(atomic.LoadInt64(&cancelled))
	if want != total*3/4 {
		t.Fatalf("expected every cancel to hit a pending event, cancelled=%d", cancelled)
	}

	seen := make(map[string]Kind, want)
	deadline := time.After(5 * time.Second)
	for len(seen) < want {
		select {
		case <-deadline:
			t.Fatalf("timeout: received=%d want=%d dropped=%d", len(seen), want, engine.Dropped())
		case ev := <-engine.C():
			if _, dup := seen[ev.ID]; dup {
				t.Fatalf("event %s delivered twice", ev.ID)
			}
			seen[ev.ID] = ev.Kind
		}
	}

	select {
	case ev := <-engine.C():
		t.Fatalf("unexpected extra event %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	for w := 0; w < workers; w++ {
		for i := 0; i < perWorker; i++ {
			kind, ok := seen[id(w, i)]
			switch {
			case i%4 == 0 && ok:
				t.Fatalf("cancelled event %s was delivered", id(w, i))
			case i%4 == 1 || i%4 == 3:
				if kind != KindGoalEval {
					t.Fatalf("replaced event %s delivered as %q", id(w, i), kind)
				}
			}
		}
	}
	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops, got=%d", engine.Dropped())
	}
}
