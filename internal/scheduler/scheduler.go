package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/hypo-service/internal/market"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const reloadTimeout = 30 * time.Second

// SnapshotLoader builds a fresh market snapshot
type SnapshotLoader interface {
	Load(ctx context.Context) (*market.Snapshot, error)
}

// Reloader periodically rebuilds the market snapshot and swaps it into the store
type Reloader struct {
	store  *market.Store
	loader SnapshotLoader
	log    *logrus.Logger
	cron   *cron.Cron
}

// NewReloader creates a reloader; call Start to schedule it
func NewReloader(store *market.Store, loader SnapshotLoader, log *logrus.Logger) *Reloader {
	return &Reloader{
		store:  store,
		loader: loader,
		log:    log,
		cron:   cron.New(),
	}
}

// Start schedules Reload with a standard five-field cron expression
func (r *Reloader) Start(schedule string) error {
	if _, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		r.Reload(ctx)
	}); err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", schedule, err)
	}
	r.cron.Start()
	r.log.Infof("Market reload scheduled: %s", schedule)
	return nil
}

// Stop halts scheduling and waits for a running reload to finish
func (r *Reloader) Stop() {
	<-r.cron.Stop().Done()
}

// Reload swaps in a new snapshot. On failure the current snapshot stays.
func (r *Reloader) Reload(ctx context.Context) bool {
	snap, err := r.loader.Load(ctx)
	if err != nil {
		r.log.Errorf("Market reload failed, keeping snapshot from %s: %v",
			r.store.Current().LoadedAt.Format(time.RFC3339), err)
		return false
	}
	r.store.Swap(snap)
	r.log.WithFields(logrus.Fields{
		"towns":         len(snap.Prices),
		"interest_rate": snap.Bank.InterestRate,
	}).Info("Market snapshot reloaded")
	return true
}
