package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse-tracker/internal/config"
)

type countingRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingRefresher) Load(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

func (r *countingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type recordingExporter struct {
	mu  sync.Mutex
	ats []time.Time
}

func (e *recordingExporter) ExportInventory(_ context.Context, at time.Time) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ats = append(e.ats, at)
	return 2, nil
}

func TestStartRegistersConfiguredJobs(t *testing.T) {
	s, err := NewScheduler(config.SchedulerConfig{
		RefreshSchedule: "*/5 * * * *",
		ExportSchedule:  "0 20 * * *",
		Timezone:        "Africa/Dakar",
	}, &countingRefresher{}, &recordingExporter{}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 2)
	assert.Equal(t, "Africa/Dakar", s.cron.Location().String())
}

func TestEmptyScheduleOrMissingExporterSkipsJob(t *testing.T) {
	s, err := NewScheduler(config.SchedulerConfig{
		RefreshSchedule: "",
		ExportSchedule:  "0 20 * * *",
	}, &countingRefresher{}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Empty(t, s.cron.Entries())
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := NewScheduler(config.SchedulerConfig{Timezone: "Mars/Olympus"}, nil, nil, nil)
	require.Error(t, err)

	s, err := NewScheduler(config.SchedulerConfig{RefreshSchedule: "every now and then"}, &countingRefresher{}, nil, nil)
	require.NoError(t, err)
	assert.ErrorContains(t, s.Start(), "schedule inventory refresh")
}

func TestJobsCallCollaborators(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("products unavailable")}
	exporter := &recordingExporter{}
	s, err := NewScheduler(config.SchedulerConfig{Timezone: "Africa/Dakar"}, refresher, exporter, zap.NewNop())
	require.NoError(t, err)

	s.refresh()
	s.export()

	assert.Equal(t, 1, refresher.count())
	require.Len(t, exporter.ats, 1)
	assert.Equal(t, "Africa/Dakar", exporter.ats[0].Location().String())
}
