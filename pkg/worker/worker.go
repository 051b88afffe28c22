package worker

import (
	"sync/atomic"

	"algovanity/internal/address"
	"algovanity/internal/keygen"
	"algovanity/pkg/types"
)

// flushEvery bounds how often a worker syncs its local attempt count with
// the shared total. Any more regularly would add needless contention.
const flushEvery = 1000

// Worker runs the generate-and-match loop for a single goroutine.
type Worker struct {
	gen      keygen.Generator
	prefix   string
	attempts *int64
	matches  chan<- types.Match
	resume   <-chan struct{}
	errs     chan<- error
	done     <-chan struct{}
}

// New creates a new worker instance. attempts is shared across the pool and
// updated atomically; matches and errs report back to the coordinator;
// resume acknowledges each delivered match; done broadcasts cancellation.
func New(gen keygen.Generator, prefix string, attempts *int64, matches chan<- types.Match, resume <-chan struct{}, errs chan<- error, done <-chan struct{}) *Worker {
	return &Worker{
		gen:      gen,
		prefix:   prefix,
		attempts: attempts,
		matches:  matches,
		resume:   resume,
		errs:     errs,
		done:     done,
	}
}

// Run generates keypairs until done closes or generation fails. The stop
// signal is observed at iteration boundaries only, never mid-generation.
// A match is handed to the coordinator synchronously and the worker then
// waits for the acknowledgment, so the coordinator's stop decision for that
// match is always visible here before another keypair is generated. A match
// already handed over is always delivered: the coordinator keeps draining
// the channel until every worker has returned.
func (w *Worker) Run() {
	var local int64
	defer func() {
		if local > 0 {
			atomic.AddInt64(w.attempts, local)
		}
	}()

	for {
		select {
		case <-w.done:
			return
		default:
		}

		kp, err := w.gen.Generate()

		// Every generation call counts as an attempt, failed or not.
		if local++; local == flushEvery {
			atomic.AddInt64(w.attempts, local)
			local = 0
		}

		if err != nil {
			w.errs <- err
			return
		}

		if address.HasPrefix(kp.Address, w.prefix) {
			w.matches <- types.Match{Address: kp.Address, Mnemonic: kp.Mnemonic}
			select {
			case <-w.done:
				return
			case <-w.resume:
				// The coordinator decides whether the search is complete
				// before acknowledging; a closed done channel is caught at
				// the top of the next iteration.
			}
		}
	}
}
