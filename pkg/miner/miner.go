package miner

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"algovanity/internal/config"
	"algovanity/internal/keygen"
	"algovanity/internal/logger"
	"algovanity/pkg/store"
	"algovanity/pkg/types"
	"algovanity/pkg/worker"
)

// Miner coordinates the worker pool: it collects matches, persists them in
// receipt order, tracks the cumulative attempt count and decides when the
// search stops.
type Miner struct {
	config *config.Config
	logger *logger.Logger
	store  *store.Store
	gen    keygen.Generator

	attempts int64
	found    int64

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// New creates a new miner instance.
func New(cfg *config.Config, log *logger.Logger, st *store.Store, gen keygen.Generator) *Miner {
	return &Miner{
		config: cfg,
		logger: log,
		store:  st,
		gen:    gen,
		done:   make(chan struct{}),
	}
}

// Run spawns the pool and blocks until the target count is reached, Stop is
// called, or a worker or the store fails. The target is a soft threshold:
// matches still in flight when the stop signal lands are persisted too,
// never discarded.
func (m *Miner) Run() error {
	start := time.Now()
	workers := m.config.WorkerCount(runtime.NumCPU())

	// The match channel is unbuffered: each find is a synchronous handoff,
	// so a worker can never queue up matches past the stop decision. The
	// resume channel carries one acknowledgment per delivered match; its
	// buffer only ever holds tokens whose worker already exited via done.
	matches := make(chan types.Match)
	resume := make(chan struct{}, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		w := worker.New(m.gen, m.config.Prefix, &m.attempts, matches, resume, errs, m.done)
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Run()
		}()
	}

	stopped := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(stopped)
	}()

	interval := time.Duration(m.config.LogInterval) * time.Second
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var runErr error
	for {
		select {
		case mt := <-matches:
			// Decide completion before acknowledging the sender or touching
			// the disk: once the target is reached the finder must observe
			// the closed done channel before it can generate again. With
			// one worker the search therefore never overshoots; with N
			// workers at most N-1 in-flight finds can still arrive.
			if m.config.Number > 0 && m.Found()+1 >= int64(m.config.Number) {
				m.Stop()
			}
			resume <- struct{}{}
			if err := m.record(mt); err != nil {
				m.Stop()
				m.discard(matches, stopped)
				return err
			}

		case err := <-errs:
			if runErr == nil {
				runErr = fmt.Errorf("generate keypair: %w", err)
			}
			m.Stop()

		case <-ticker.C:
			m.snapshot(start)

		case <-stopped:
			// All workers have returned. Handoffs are synchronous, so every
			// match ever emitted has already been received and persisted.
			return runErr
		}
	}
}

// record renders the find before persisting it, so the user sees the address
// even if the write fails.
func (m *Miner) record(mt types.Match) error {
	m.logger.Found(mt.Address)
	if err := m.store.Append(mt); err != nil {
		return err
	}
	atomic.AddInt64(&m.found, 1)
	return nil
}

// discard waits for the pool to wind down after a persistence failure,
// logging matches that can no longer be written so they are not silently
// lost.
func (m *Miner) discard(matches <-chan types.Match, stopped <-chan struct{}) {
	for {
		select {
		case mt := <-matches:
			// Senders waiting on acknowledgment exit through the closed
			// done channel instead.
			m.logger.Found(mt.Address)
		case <-stopped:
			return
		}
	}
}

// snapshot reads the shared counters without halting generation and logs
// progress. The rate is a simple average over elapsed time, not a sliding
// window.
func (m *Miner) snapshot(start time.Time) {
	attempts := atomic.LoadInt64(&m.attempts)
	rate := 0.0
	if elapsed := time.Since(start).Seconds(); elapsed > 0 {
		rate = float64(attempts) / elapsed
	}
	m.logger.Progress(attempts, rate)
}

// Stop broadcasts cancellation to the pool. Safe to call more than once and
// from other goroutines; the interrupt handler uses it.
func (m *Miner) Stop() {
	m.once.Do(func() { close(m.done) })
}

// Found returns how many matches have been persisted so far.
func (m *Miner) Found() int64 {
	return atomic.LoadInt64(&m.found)
}

// Attempts returns the cumulative attempt count across all workers.
func (m *Miner) Attempts() int64 {
	return atomic.LoadInt64(&m.attempts)
}
