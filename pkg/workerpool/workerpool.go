// Package workerpool runs a function over a slice on a fixed number of goroutines.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

type options struct {
	continueOnError bool
	onCancel        func()
}

type Option func(*options)

// ContinueOnError processes every item and joins the failures instead of
// stopping at the first one.
func ContinueOnError() Option {
	return func(o *options) {
		o.continueOnError = true
	}
}

// OnCancel is invoked once when a failure cancels the remaining work.
func OnCancel(fn func()) Option {
	return func(o *options) {
		o.onCancel = fn
	}
}

// Process calls process for every item using workerCount goroutines. By
// default the first error cancels the pool and is returned.
func Process[T any](ctx context.Context, workerCount int, items []T, process func(context.Context, T) error, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if workerCount <= 0 {
		workerCount = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		failures []error
		once     sync.Once
	)
	fail := func(err error) {
		mu.Lock()
		failures = append(failures, err)
		mu.Unlock()
		if o.continueOnError {
			return
		}
		once.Do(func() {
			if o.onCancel != nil {
				o.onCancel()
			}
			cancel()
		})
	}

	tasks := make(chan T)
	wg := sync.WaitGroup{}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				if err := process(ctx, item); err != nil {
					fail(err)
				}
			}
		}()
	}

feed:
	for _, item := range items {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- item:
		}
	}
	close(tasks)
	wg.Wait()

	if len(failures) > 0 {
		if o.continueOnError {
			return errors.Join(failures...)
		}
		return failures[0]
	}
	return ctx.Err()
}
