package services

import (
	"context"
	"emd/internal/models"
	"emd/internal/providers"
	"emd/internal/structures"
	"emd/internal/upstream"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// QueryServiceInterface owns the committed time window and the query
// snapshot the dashboard renders. Refresh issues the chained statistics and
// activity requests; window edits go through Commit/ChangeUnit and the
// caller triggers the follow-up Refresh explicitly.
type QueryServiceInterface interface {
	Refresh(ctx context.Context, account string)
	CommitWindowValue(raw string) bool
	ChangeWindowUnit(unit models.TimeUnit) bool
	Window() models.TimeWindow
	Snapshot() models.QuerySnapshot
	PersistableSnapshot(account string) *models.SnapshotFile
	RestoreSnapshot(file *models.SnapshotFile)
}

type QueryService struct {
	client  upstream.ClientInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	mu       sync.RWMutex
	window   models.TimeWindow
	snapshot models.QuerySnapshot
	started  bool

	// seq tags each refresh; a settled refresh whose tag is no longer the
	// latest must not touch the snapshot. Last issued wins, not last settled.
	seq atomic.Uint64
}

func NewQueryService(conf *structures.Config, client upstream.ClientInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) QueryServiceInterface {
	window := models.DefaultTimeWindow(conf.Window.DefaultHours)
	return &QueryService{
		client:  client,
		logger:  logger,
		metrics: metrics,
		window:  window,
		snapshot: models.QuerySnapshot{
			Window:   window,
			Activity: []models.ActivityBucket{},
		},
	}
}

// Refresh fetches statistics for the committed window, then the activity
// series for the same canonical hours. A statistics failure ends the cycle
// and sets the error message; an activity failure is logged and leaves the
// previous series in place without touching the error message.
func (qs *QueryService) Refresh(ctx context.Context, account string) {
	qs.mu.Lock()
	window := qs.window
	if !window.Valid() {
		qs.mu.Unlock()
		return
	}
	if qs.started {
		qs.snapshot.IsRefreshing = true
	} else {
		qs.snapshot.IsBootstrapping = true
		qs.started = true
	}
	seq := qs.seq.Inc()
	qs.mu.Unlock()

	qs.metrics.IncRefreshes()

	stats, err := qs.client.EmailStats(ctx, window.Hours(), account)
	if err != nil {
		qs.logger.Errorf(providers.TypeUpstream, "stats fetch for %dh failed: %s", window.Hours(), err)
		qs.settle(seq, func(s *models.QuerySnapshot) {
			s.ErrorMessage = upstream.UserMessage(err)
		})
		return
	}

	// Apply the primary numbers before the secondary fetch so a slow or
	// failing chart request never delays or hides them. A superseded
	// refresh skips the activity call outright.
	if !qs.apply(seq, func(s *models.QuerySnapshot) {
		s.Stats = stats
		s.ErrorMessage = ""
	}) {
		return
	}

	activity, err := qs.client.EmailActivity(ctx, window.Hours())
	if err != nil {
		qs.logger.Warnf(providers.TypeUpstream, "activity fetch for %dh failed, keeping previous series: %s", window.Hours(), err)
		qs.settle(seq, nil)
		return
	}

	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Hour < activity[j].Hour
	})
	qs.settle(seq, func(s *models.QuerySnapshot) {
		s.Activity = activity
	})
}

// apply mutates the snapshot unless this refresh has been superseded.
func (qs *QueryService) apply(seq uint64, mutate func(*models.QuerySnapshot)) bool {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	if qs.seq.Load() != seq {
		qs.metrics.IncStaleDiscards()
		return false
	}
	if mutate != nil {
		mutate(&qs.snapshot)
	}
	return true
}

// settle is apply plus ending the loading state.
func (qs *QueryService) settle(seq uint64, mutate func(*models.QuerySnapshot)) {
	qs.apply(seq, func(s *models.QuerySnapshot) {
		if mutate != nil {
			mutate(s)
		}
		s.IsBootstrapping = false
		s.IsRefreshing = false
	})
}

// CommitWindowValue applies a submitted value edit. A pending text that does
// not parse to a positive integer silently retains the committed window.
// Returns whether the commit was accepted and a re-query should follow.
func (qs *QueryService) CommitWindowValue(raw string) bool {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	next, ok := models.Commit(raw, qs.window)
	if !ok {
		return false
	}
	qs.window = next
	return true
}

// ChangeWindowUnit re-expresses the committed window under the new unit.
// Returns whether the window changed and a re-query should follow.
func (qs *QueryService) ChangeWindowUnit(unit models.TimeUnit) bool {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	next := models.ChangeUnit(unit, qs.window)
	if next == qs.window {
		return false
	}
	qs.window = next
	return true
}

func (qs *QueryService) Window() models.TimeWindow {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	return qs.window
}

func (qs *QueryService) Snapshot() models.QuerySnapshot {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	snap := qs.snapshot
	snap.Window = qs.window
	snap.Activity = append([]models.ActivityBucket(nil), qs.snapshot.Activity...)
	return snap
}

func (qs *QueryService) PersistableSnapshot(account string) *models.SnapshotFile {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	return &models.SnapshotFile{
		Version:  models.SnapshotFileVersion,
		Stats:    qs.snapshot.Stats,
		Activity: append([]models.ActivityBucket(nil), qs.snapshot.Activity...),
		Window:   qs.window,
		Account:  account,
		SavedAt:  time.Now(),
	}
}

// RestoreSnapshot seeds the last-good numbers from disk. Loading flags are
// left alone; the startup refresh supersedes the restored data as soon as
// it settles.
func (qs *QueryService) RestoreSnapshot(file *models.SnapshotFile) {
	if file == nil {
		return
	}
	qs.mu.Lock()
	defer qs.mu.Unlock()
	qs.snapshot.Stats = file.Stats
	if file.Activity != nil {
		qs.snapshot.Activity = file.Activity
	}
	if file.Window.Valid() {
		qs.window = file.Window
	}
}
