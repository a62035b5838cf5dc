// Package follower periodically discovers the proposals of every registry
// community and records their tallies.
package follower

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/clock"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/pkg/batcher"
	"github.com/Tribo-Hackathon/Tribo/pkg/workerpool"
	"go.uber.org/zap"
)

type Option func(*Service)

func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithNotifier enables announcements. Without it the follower only records.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(s *Service) {
		s.sleep = fn
	}
}

// Service walks every community on each cycle.
type Service struct {
	logger     *zap.Logger
	network    model.Network
	registry   Registry
	governance Governance
	repo       Repository
	writer     SnapshotWriter
	notifier   Notifier
	metrics    Metrics
	sleep      clock.SleepFunc
	now        func() time.Time
	interval   time.Duration
	workers    int

	mu        sync.Mutex
	announced map[string]struct{}
}

func New(
	registry Registry,
	gov Governance,
	repo Repository,
	metrics Metrics,
	network model.Network,
	logger *zap.Logger,
	opts ...Option,
) (*Service, error) {
	if registry == nil || gov == nil {
		return nil, errors.New("registry and governance readers are required")
	}
	if repo == nil {
		return nil, errors.New("snapshot repository is required")
	}
	if metrics == nil {
		return nil, errors.New("proposal follower metrics is required")
	}

	s := &Service{
		logger:     logger.With(zap.String("network", string(network))),
		network:    network,
		registry:   registry,
		governance: gov,
		repo:       repo,
		metrics:    metrics,
		sleep:      clock.SleepWithContext,
		now:        time.Now,
		interval:   defaultInterval,
		workers:    defaultWorkers,
		announced:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.writer = batcher.New[model.ProposalSnapshot](
		batcher.Config{Size: snapshotBatchSize, Interval: snapshotFlushInterval, RPS: snapshotFlushRPS},
		s.writeSnapshots,
		s.logger.Named("snapshots"),
	)
	return s, nil
}

// Run cycles until ctx is canceled. Buffered snapshots are flushed on exit.
func (s *Service) Run(ctx context.Context) error {
	s.writer.Start(ctx)
	defer s.writer.Stop()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.run(ctx); err != nil {
			s.logger.Warn("follow cycle incomplete", zap.Error(err))
		}
		if err := s.sleep(ctx, s.interval); err != nil {
			return err
		}
	}
}

func (s *Service) run(ctx context.Context) error {
	started := time.Now()
	communities := s.registry.ListCommunities(ctx)
	err := workerpool.Process(ctx, s.workers, communities, s.follow, workerpool.ContinueOnError())
	s.metrics.ObserveCycle(err, len(communities), started)
	if err == nil {
		s.logger.Debug("follow cycle done", zap.Int("communities", len(communities)), zap.Duration("took", time.Since(started)))
	}
	return err
}

func (s *Service) writeSnapshots(ctx context.Context, snapshots []model.ProposalSnapshot) error {
	err := s.repo.InsertProposalSnapshots(ctx, snapshots)
	s.metrics.ObserveSnapshots(err, len(snapshots))
	return err
}
