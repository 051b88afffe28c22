package worker

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"algovanity/pkg/types"
)

// scriptedGen produces a deterministic address stream: calls listed in
// matchOn yield addresses starting with "AAAA", everything else starts with
// "ZZZZ". It closes done after stopAfter calls and fails after failAfter
// calls, so tests control exactly how many iterations a worker runs.
type scriptedGen struct {
	calls     int64
	matchOn   map[int64]bool
	stopAfter int64
	failAfter int64
	done      chan struct{}
}

func (g *scriptedGen) Generate() (types.Keypair, error) {
	n := atomic.AddInt64(&g.calls, 1)
	if g.failAfter > 0 && n > g.failAfter {
		return types.Keypair{}, errors.New("entropy source failed")
	}
	if g.stopAfter > 0 && n == g.stopAfter {
		close(g.done)
	}
	if g.matchOn[n] {
		return types.Keypair{
			Address:  fmt.Sprintf("AAAA%054d", n),
			Mnemonic: fmt.Sprintf("words for %d", n),
		}, nil
	}
	return types.Keypair{Address: fmt.Sprintf("ZZZZ%054d", n), Mnemonic: "unused"}, nil
}

// ackedResume returns a resume channel that acknowledges every match
// immediately, standing in for a coordinator that never stops the search.
func ackedResume() <-chan struct{} {
	resume := make(chan struct{})
	close(resume)
	return resume
}

func runWorker(t *testing.T, w *Worker) {
	t.Helper()
	finished := make(chan struct{})
	go func() {
		w.Run()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerEmitsMatches(t *testing.T) {
	done := make(chan struct{})
	gen := &scriptedGen{
		matchOn:   map[int64]bool{3: true, 7: true},
		stopAfter: 10,
		done:      done,
	}
	matches := make(chan types.Match, 16)
	errs := make(chan error, 1)
	var attempts int64

	w := New(gen, "AAAA", &attempts, matches, ackedResume(), errs, done)
	runWorker(t, w)

	if len(matches) != 2 {
		t.Fatalf("worker emitted %d matches, want 2", len(matches))
	}
	for i := 0; i < 2; i++ {
		m := <-matches
		if !strings.HasPrefix(m.Address, "AAAA") {
			t.Errorf("match address %q does not satisfy the prefix", m.Address)
		}
		if !strings.HasPrefix(m.Mnemonic, "words for ") {
			t.Errorf("match mnemonic %q was not carried over from the keypair", m.Mnemonic)
		}
	}
	if len(errs) != 0 {
		t.Errorf("worker reported an error: %v", <-errs)
	}
}

func TestWorkerStopsAtIterationBoundary(t *testing.T) {
	done := make(chan struct{})
	close(done)
	gen := &scriptedGen{done: done}
	matches := make(chan types.Match, 1)
	errs := make(chan error, 1)
	var attempts int64

	w := New(gen, "AAAA", &attempts, matches, ackedResume(), errs, done)
	runWorker(t, w)

	if got := atomic.LoadInt64(&gen.calls); got != 0 {
		t.Errorf("worker generated %d keypairs after stop, want 0", got)
	}
}

func TestWorkerWaitsForAcknowledgment(t *testing.T) {
	done := make(chan struct{})
	gen := &scriptedGen{
		matchOn: map[int64]bool{1: true},
		done:    done,
	}
	matches := make(chan types.Match, 1)
	errs := make(chan error, 1)
	resume := make(chan struct{}, 1)
	var attempts int64

	w := New(gen, "AAAA", &attempts, matches, resume, errs, done)
	finished := make(chan struct{})
	go func() {
		w.Run()
		close(finished)
	}()

	// The first call matches; without an acknowledgment the worker must not
	// generate a second keypair.
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt64(&gen.calls); got != 1 {
		t.Errorf("worker generated %d keypairs before acknowledgment, want 1", got)
	}

	// Acknowledging lets the loop continue.
	resume <- struct{}{}
	deadline := time.After(5 * time.Second)
	for atomic.LoadInt64(&gen.calls) < 2 {
		select {
		case <-deadline:
			t.Fatal("worker never resumed after acknowledgment")
		case <-time.After(time.Millisecond):
		}
	}

	close(done)
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerFlushesAttempts(t *testing.T) {
	tests := []struct {
		name      string
		stopAfter int64
	}{
		{
			name:      "below one batch",
			stopAfter: 500,
		},
		{
			name:      "several batches plus remainder",
			stopAfter: 2500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan struct{})
			gen := &scriptedGen{stopAfter: tt.stopAfter, done: done}
			matches := make(chan types.Match, 1)
			errs := make(chan error, 1)
			var attempts int64

			w := New(gen, "AAAA", &attempts, matches, ackedResume(), errs, done)
			runWorker(t, w)

			if got := atomic.LoadInt64(&attempts); got != tt.stopAfter {
				t.Errorf("attempts = %d, want %d", got, tt.stopAfter)
			}
		})
	}
}

func TestWorkerReportsGeneratorFailure(t *testing.T) {
	done := make(chan struct{})
	gen := &scriptedGen{failAfter: 3, done: done}
	matches := make(chan types.Match, 1)
	errs := make(chan error, 1)
	var attempts int64

	w := New(gen, "AAAA", &attempts, matches, ackedResume(), errs, done)
	runWorker(t, w)

	select {
	case err := <-errs:
		if err == nil {
			t.Error("worker reported a nil error")
		}
	default:
		t.Fatal("worker did not report the generator failure")
	}
	// The failed call counts as an attempt too.
	if got := atomic.LoadInt64(&attempts); got != 4 {
		t.Errorf("attempts = %d, want 4", got)
	}
}
