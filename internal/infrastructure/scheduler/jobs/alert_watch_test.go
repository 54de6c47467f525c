package jobs

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/application/store"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/psychologist"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
)

type fakeDashboard struct {
	ok        bool
	alerts    []*psychologist.Alert
	refreshed []string
}

func (f *fakeDashboard) RefreshDashboard(_ context.Context, id string) bool {
	f.refreshed = append(f.refreshed, id)
	return f.ok
}

func (f *fakeDashboard) Snapshot() store.PsychologistSnapshot {
	return store.PsychologistSnapshot{Alerts: f.alerts}
}

type eventSink struct {
	mu     sync.Mutex
	events []shared.Event
}

func (s *eventSink) Publish(e shared.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestAlertWatch_SkipsWithoutPsychologist(t *testing.T) {
	dash := &fakeDashboard{ok: true}
	job := NewAlertWatchJob(dash, func() string { return "" }, nil, quiet())

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, dash.refreshed)
}

func TestAlertWatch_ReportsNewUnreadOnce(t *testing.T) {
	dash := &fakeDashboard{ok: true, alerts: []*psychologist.Alert{
		{ID: 1}, {ID: 2, Read: true},
	}}
	sink := &eventSink{}
	id := "p1"
	job := NewAlertWatchJob(dash, func() string { return id }, sink, quiet())

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, sink.events, 1)
	raised := sink.events[0].(*shared.AlertsRaisedEvent)
	assert.Equal(t, []int64{1}, raised.AlertIDs)
	assert.Equal(t, "p1", raised.PsychologistID)

	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, sink.events, 1)

	dash.alerts = append(dash.alerts, &psychologist.Alert{ID: 3})
	require.NoError(t, job.Run(context.Background()))
	require.Len(t, sink.events, 2)
	assert.Equal(t, []int64{3}, sink.events[1].(*shared.AlertsRaisedEvent).AlertIDs)

	id = "p2"
	require.NoError(t, job.Run(context.Background()))
	require.Len(t, sink.events, 3)
	assert.Equal(t, []int64{1, 3}, sink.events[2].(*shared.AlertsRaisedEvent).AlertIDs)
	assert.Equal(t, []string{"p1", "p1", "p1", "p2"}, dash.refreshed)
}

func TestAlertWatch_RefreshFailure(t *testing.T) {
	dash := &fakeDashboard{ok: false}
	job := NewAlertWatchJob(dash, func() string { return "p1" }, nil, quiet())

	assert.ErrorIs(t, job.Run(context.Background()), ErrRefreshFailed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, job.Run(ctx), context.Canceled)
	assert.Equal(t, AlertWatchName, job.Name())
}
