// Package worker provides managed background goroutines.
package worker

import "sync"

// Worker is a set of goroutines that are stopped together.
type Worker struct {
	sync.WaitGroup
	initOnce sync.Once
	haltOnce sync.Once

	haltCh chan struct{}
}

// Go runs fn in a new goroutine under w. fn must watch HaltCh and return
// once it is closed.
func (w *Worker) Go(fn func()) {
	w.initOnce.Do(w.init)
	w.Add(1)
	go func() {
		defer w.Done()
		fn()
	}()
}

// Halt closes HaltCh and waits for every goroutine to return. Only the first
// call closes the channel; every call waits.
func (w *Worker) Halt() {
	w.Signal()
	w.Wait()
}

// Signal closes HaltCh without waiting. Goroutines under w use it to stop
// their siblings.
func (w *Worker) Signal() {
	w.initOnce.Do(w.init)
	w.haltOnce.Do(func() { close(w.haltCh) })
}

// HaltCh returns the channel closed by Halt or Signal.
func (w *Worker) HaltCh() <-chan struct{} {
	w.initOnce.Do(w.init)
	return w.haltCh
}

func (w *Worker) init() {
	w.haltCh = make(chan struct{})
}
