package queue

import (
	"context"
	"errors"
	"sync"
)

// LocalDispatcher runs generation in-process, one goroutine per submission.
// It is the fallback when Redis is not configured and the substitute used in
// tests, where Wait makes completion observable.
type LocalDispatcher struct {
	mu      sync.RWMutex
	process ProcessFunc
	wg      sync.WaitGroup
}

func NewLocalDispatcher() *LocalDispatcher {
	return &LocalDispatcher{}
}

// Bind sets the processing function. The dispatcher is usually constructed
// before the service that owns the function, so binding happens late.
func (d *LocalDispatcher) Bind(process ProcessFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.process = process
}

func (d *LocalDispatcher) Dispatch(_ context.Context, submissionID string) error {
	d.mu.RLock()
	process := d.process
	d.mu.RUnlock()
	if process == nil {
		return errors.New("local dispatcher has no bound process function")
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// Detached from the request context: the background unit runs to
		// completion or failure regardless of the caller.
		_ = process(context.Background(), submissionID)
	}()
	return nil
}

// Wait blocks until every dispatched unit has finished.
func (d *LocalDispatcher) Wait() {
	d.wg.Wait()
}
