// AngelaMos | 2026
// sweeper.go

package payment

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredDowngrader resets lapsed paid memberships. Implemented by
// user.Service.
type ExpiredDowngrader interface {
	DowngradeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically downgrades users whose payment expiry has passed.
// Expiry is stored on the user at confirmation time; the sweep is what
// actually enforces it.
type Sweeper struct {
	users    ExpiredDowngrader
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(
	users ExpiredDowngrader,
	interval time.Duration,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		users:    users,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. One sweep fires immediately so a
// restart never extends a lapsed membership by a full interval.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	downgraded, err := s.users.DowngradeExpired(sweepCtx, time.Now())
	if err != nil {
		s.logger.Error("expiry sweep failed", "error", err)
		return
	}

	if downgraded > 0 {
		s.logger.Info("downgraded expired memberships", "count", downgraded)
	}
}
