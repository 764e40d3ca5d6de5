package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/usecase"
)

const defaultReapInterval = time.Minute

// Reaper periodically sweeps pending payments past their expiry into the
// expired state. Running more than one reaper is safe; the sweep is a single
// conditional update.
type Reaper struct {
	ledger   *usecase.LedgerService
	interval time.Duration
	logger   *zap.Logger
}

// NewReaper creates a new expiry reaper
func NewReaper(ledger *usecase.LedgerService, interval time.Duration, logger *zap.Logger) *Reaper {
	if interval <= 0 {
		interval = defaultReapInterval
	}
	return &Reaper{
		ledger:   ledger,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on a ticker until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	r.logger.Info("expiry reaper started", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("expiry reaper stopped")
			return
		case <-ticker.C:
			if _, err := r.ledger.ReapExpired(ctx); err != nil {
				r.logger.Error("expiry sweep failed", zap.Error(err))
			}
		}
	}
}
