// Package jobs contains the periodic jobs the portal schedules.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/application/store"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
)

// AlertWatchName is the scheduler name of AlertWatchJob.
const AlertWatchName = "alert_watch"

// ErrRefreshFailed is returned when the dashboard refresh did not complete.
var ErrRefreshFailed = errors.New("alert watch: dashboard refresh failed")

// Dashboard is the part of the psychologist store the job drives.
type Dashboard interface {
	RefreshDashboard(ctx context.Context, psychologistID string) bool
	Snapshot() store.PsychologistSnapshot
}

// AlertWatchJob refreshes the psychologist dashboard and publishes an
// AlertsRaisedEvent for unread alerts it has not reported before. It does
// nothing while no psychologist is signed in.
type AlertWatchJob struct {
	dashboard      Dashboard
	psychologistID func() string
	events         shared.EventPublisher
	logger         *slog.Logger

	mu       sync.Mutex
	watching string
	seen     map[int64]struct{}
}

// NewAlertWatchJob creates the job. psychologistID returns "" when nobody
// eligible is signed in. events may be nil.
func NewAlertWatchJob(dashboard Dashboard, psychologistID func() string, events shared.EventPublisher, logger *slog.Logger) *AlertWatchJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertWatchJob{
		dashboard:      dashboard,
		psychologistID: psychologistID,
		events:         events,
		logger:         logger,
		seen:           make(map[int64]struct{}),
	}
}

// Name implements scheduler.Job.
func (j *AlertWatchJob) Name() string { return AlertWatchName }

// Description implements scheduler.Job.
func (j *AlertWatchJob) Description() string {
	return "refreshes students and alerts of the signed-in psychologist"
}

// Run implements scheduler.Job.
func (j *AlertWatchJob) Run(ctx context.Context) error {
	id := j.psychologistID()
	if id == "" {
		return nil
	}

	if !j.dashboard.RefreshDashboard(ctx, id) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrRefreshFailed
	}

	fresh := j.collect(id, j.dashboard.Snapshot())
	if len(fresh) == 0 {
		return nil
	}

	j.logger.Info("new unread alerts", "psychologist_id", id, "count", len(fresh))
	if j.events != nil {
		if err := j.events.Publish(shared.NewAlertsRaisedEvent(id, fresh)); err != nil {
			j.logger.Warn("publish alerts raised failed", "error", err)
		}
	}
	return nil
}

// collect returns unread alert ids not reported before for id. Switching
// psychologist starts over.
func (j *AlertWatchJob) collect(id string, snap store.PsychologistSnapshot) []int64 {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.watching != id {
		j.watching = id
		j.seen = make(map[int64]struct{})
	}

	var fresh []int64
	for _, a := range snap.Alerts {
		if a.Read {
			continue
		}
		if _, ok := j.seen[a.ID]; ok {
			continue
		}
		j.seen[a.ID] = struct{}{}
		fresh = append(fresh, a.ID)
	}
	return fresh
}
