package controller

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	defaultCooldown = 5 * time.Second
	defaultMaxKeys  = 1024
)

// Status is the load state of a resource.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// View is the state of one resource as shown to a client. Data keeps the
// last good value across failures.
type View[T any] struct {
	Data      T             `json:"data"`
	Status    Status        `json:"status"`
	Category  Category      `json:"category,omitempty"`
	Message   string        `json:"message,omitempty"`
	RetryIn   time.Duration `json:"-"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Err       error         `json:"-"`
}

// HasData reports whether a fetch ever succeeded.
func (v View[T]) HasData() bool {
	return !v.UpdatedAt.IsZero()
}

type Option func(*options)

type options struct {
	clock    clock.Clock
	cooldown time.Duration
	maxKeys  int
}

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithCooldown sets how long automatic loads are suppressed after a failure.
func WithCooldown(d time.Duration) Option {
	return func(o *options) { o.cooldown = d }
}

// WithMaxKeys bounds how many loaders a Group keeps. The least recently
// used one is dropped first. Loaders ignore it.
func WithMaxKeys(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxKeys = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: clock.New(), cooldown: defaultCooldown, maxKeys: defaultMaxKeys}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Loader owns the state of one resource. Concurrent loads share the fetch
// in flight instead of starting another one.
type Loader[T any] struct {
	name  string
	fetch func(context.Context) (T, error)
	opts  options
	log   *zap.Logger

	mu       sync.Mutex
	view     View[T]
	failedAt time.Time
	inFlight chan struct{}
}

func NewLoader[T any](name string, fetch func(context.Context) (T, error), logger *zap.Logger, opts ...Option) *Loader[T] {
	return &Loader[T]{
		name:  name,
		fetch: fetch,
		opts:  buildOptions(opts),
		log:   logger.With(zap.String("resource", name)),
		view:  View[T]{Status: StatusIdle},
	}
}

// View returns the current state without loading.
func (l *Loader[T]) View() View[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current()
}

// current fills RetryIn relative to now. Callers hold mu.
func (l *Loader[T]) current() View[T] {
	v := l.view
	if v.Status == StatusError && v.Category == CategoryUnavailable {
		v.RetryIn = l.remainingCooldown()
		v.Message = Message(v.Err, v.RetryIn)
	}
	return v
}

func (l *Loader[T]) remainingCooldown() time.Duration {
	left := l.failedAt.Add(l.opts.cooldown).Sub(l.opts.clock.Now())
	if left < 0 {
		return 0
	}
	return left
}

// Load fetches the resource unless a fetch is already running, in which
// case it waits for that one. During the cooldown after a failure the
// failed view is returned as is; force bypasses the cooldown.
func (l *Loader[T]) Load(ctx context.Context, force bool) View[T] {
	l.mu.Lock()
	if wait := l.inFlight; wait != nil {
		l.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
		}
		return l.View()
	}
	if !force && l.view.Status == StatusError && l.remainingCooldown() > 0 {
		v := l.current()
		l.mu.Unlock()
		return v
	}

	done := make(chan struct{})
	l.inFlight = done
	l.view.Status = StatusLoading
	l.mu.Unlock()

	data, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	defer close(done)
	l.inFlight = nil

	switch {
	case err == nil:
		l.view = View[T]{Data: data, Status: StatusReady, UpdatedAt: l.opts.clock.Now()}
		l.failedAt = time.Time{}
	case isCanceled(err) && ctx.Err() != nil:
		// The caller went away; keep the previous state.
		l.view.Status = StatusIdle
		if l.view.HasData() {
			l.view.Status = StatusReady
		}
		if l.view.Err != nil {
			l.view.Status = StatusError
		}
	default:
		l.failedAt = l.opts.clock.Now()
		l.view.Status = StatusError
		l.view.Category = Categorize(err)
		l.view.Err = err
		l.log.Warn("resource load failed",
			zap.String("category", string(l.view.Category)),
			zap.Error(err),
		)
	}
	return l.current()
}

// Reset drops the state so the next Load fetches.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view = View[T]{Status: StatusIdle}
	l.failedAt = time.Time{}
}

// Group holds one Loader per resource key. Keys come from requests, so
// the set is bounded and idle loaders are evicted first.
type Group[T any] struct {
	name  string
	fetch func(ctx context.Context, key string) (T, error)
	opts  []Option
	log   *zap.Logger

	mu      sync.Mutex
	loaders *lru.Cache[string, *Loader[T]]
}

func NewGroup[T any](name string, fetch func(ctx context.Context, key string) (T, error), logger *zap.Logger, opts ...Option) *Group[T] {
	loaders, err := lru.New[string, *Loader[T]](buildOptions(opts).maxKeys)
	if err != nil {
		// maxKeys is always positive.
		panic(err)
	}
	return &Group[T]{
		name:    name,
		fetch:   fetch,
		opts:    opts,
		log:     logger.Named("controller").With(zap.String("group", name)),
		loaders: loaders,
	}
}

func (g *Group[T]) Loader(key string) *Loader[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.loaders.Get(key)
	if !ok {
		l = NewLoader(g.name+":"+key, func(ctx context.Context) (T, error) {
			return g.fetch(ctx, key)
		}, g.log, g.opts...)
		g.loaders.Add(key, l)
	}
	return l
}

func (g *Group[T]) Load(ctx context.Context, key string, force bool) View[T] {
	return g.Loader(key).Load(ctx, force)
}

// Len is the number of loaders currently kept.
func (g *Group[T]) Len() int {
	return g.loaders.Len()
}

// Invalidate resets the loader of key, if any.
func (g *Group[T]) Invalidate(key string) {
	l, ok := g.loaders.Peek(key)
	if ok {
		l.Reset()
	}
}
