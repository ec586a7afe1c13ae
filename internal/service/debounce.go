package service

import (
	"context"
	"sync"
	"time"
)

// DefaultQuietWindow is the debounce interval for live search input.
const DefaultQuietWindow = 300 * time.Millisecond

// SearchFunc evaluates one search. Implementations are not aborted when
// superseded; only their results are discarded.
type SearchFunc func(ctx context.Context, params SearchParams) ([]SearchResult, error)

// ApplyFunc receives the results of the newest search generation.
type ApplyFunc func(params SearchParams, results []SearchResult, err error)

// DebouncedSearch coalesces rapid-fire search input into single evaluations
// and enforces last-request-wins ordering on results. A keystroke within the
// quiet window supersedes the pending query and resets the timer; when two
// evaluations overlap, only the newest generation's results are ever applied,
// even if an older evaluation resolves later. Stale results are discarded,
// never merged.
type DebouncedSearch struct {
	search SearchFunc
	apply  ApplyFunc
	quiet  time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *SearchParams
	gen     uint64 // bumped on every Trigger
	issued  uint64 // generation of the newest evaluation started
	applied uint64 // generation of the newest results delivered

	// applyMu serializes apply callbacks. It is acquired before mu and held
	// across the callback so apply runs without mu, letting callbacks call
	// Trigger, Flush or Pending.
	applyMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDebouncedSearch creates a debounced searcher. A zero quiet duration
// uses DefaultQuietWindow.
func NewDebouncedSearch(search SearchFunc, apply ApplyFunc, quiet time.Duration) *DebouncedSearch {
	if quiet == 0 {
		quiet = DefaultQuietWindow
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &DebouncedSearch{
		search: search,
		apply:  apply,
		quiet:  quiet,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Trigger records new search input. Any pending evaluation younger than the
// quiet window is dropped unfired and the window restarts.
func (d *DebouncedSearch) Trigger(params SearchParams) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	d.pending = &params

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		d.fireLocked()
		d.mu.Unlock()
	})
}

// fireLocked starts evaluating the pending query. Must be called with the
// lock held.
func (d *DebouncedSearch) fireLocked() {
	if d.pending == nil {
		return
	}
	params := *d.pending
	gen := d.gen
	d.pending = nil
	d.issued = gen

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		results, err := d.search(d.ctx, params)

		d.applyMu.Lock()
		defer d.applyMu.Unlock()

		d.mu.Lock()
		// Discard unless this is still the newest evaluation and nothing
		// newer has already been delivered.
		if gen != d.issued || gen <= d.applied {
			d.mu.Unlock()
			return
		}
		d.applied = gen
		d.mu.Unlock()

		d.apply(params, results, err)
	}()
}

// Flush evaluates any pending query immediately, without waiting out the
// quiet window. Useful on explicit submit and during shutdown.
func (d *DebouncedSearch) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.fireLocked()
}

// Pending reports whether a query is waiting out the quiet window.
func (d *DebouncedSearch) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop flushes pending input and waits for in-flight evaluations.
func (d *DebouncedSearch) Stop() {
	d.Flush()
	d.wg.Wait()
	d.cancel()
}
