package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/metrics"
)

type revocationPurger interface {
	PurgeRevoked(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically drops revocation records whose token expired more
// than Grace ago.
type Sweeper struct {
	Repo     revocationPurger
	Interval time.Duration
	Grace    time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	n, err := s.Repo.PurgeRevoked(ctx, now().Add(-s.Grace))
	if err != nil {
		return 0, err
	}
	metrics.Swept(n)
	return n, nil
}

// Run sweeps every Interval until ctx is done. A zero Interval disables it.
func (s *Sweeper) Run(ctx context.Context) {
	if s.Interval <= 0 {
		return
	}
	l := s.Logger
	if l == nil {
		l = logging.FromContext(ctx)
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.SweepOnce(ctx)
			if err != nil {
				l.Error("revocation_sweep_failed", "error", err)
				continue
			}
			if n > 0 {
				l.Info("revocation_sweep", "removed", n)
			}
		}
	}
}
