package ics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "creatorflow/internal/log"
)

// Refresher re-runs an Importer on a cron schedule.
type Refresher struct {
	cron     *cron.Cron
	importer *Importer
	sink     Sink

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	last   time.Time
}

// NewRefresher parses schedule (standard five-field cron, or descriptors such
// as "@every 15m") in loc.
func NewRefresher(schedule string, loc *time.Location, importer *Importer, sink Sink) (*Refresher, error) {
	if loc == nil {
		loc = time.Local
	}
	r := &Refresher{
		cron:     cron.New(cron.WithLocation(loc)),
		importer: importer,
		sink:     sink,
	}
	if _, err := r.cron.AddFunc(schedule, r.tick); err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start runs one import immediately, then follows the schedule until ctx
// is done or Stop is called.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	r.RunOnce(r.ctx)
	r.cron.Start()
	appLog.Info("feed refresher started", "entries", len(r.cron.Entries()))
}

// Stop halts the schedule and waits for a running import to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
	<-r.cron.Stop().Done()
	appLog.Info("feed refresher stopped")
}

// RunOnce performs a single import.
func (r *Refresher) RunOnce(ctx context.Context) {
	added, err := r.importer.Run(ctx, r.sink)
	if err != nil {
		appLog.Error("feed refresh incomplete", err, "added", added)
	}
	r.mu.Lock()
	r.last = time.Now()
	r.mu.Unlock()
}

// LastRun reports when the last import finished.
func (r *Refresher) LastRun() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Refresher) tick() {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	r.RunOnce(ctx)
}
