package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTimecardService struct {
	timecard.TimecardService
	calls  atomic.Int32
	closed int
	err    error
}

func (s *stubTimecardService) CloseStaleShifts(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return s.closed, s.err
}

func TestTimecardJobs_AutoClockOut(t *testing.T) {
	svc := &stubTimecardService{closed: 2}
	jobs := NewTimecardJobs(svc, time.Minute)

	require.NoError(t, jobs.AutoClockOut(context.Background()))
	assert.Equal(t, int32(1), svc.calls.Load())
}

func TestTimecardJobs_AutoClockOut_PropagatesError(t *testing.T) {
	svc := &stubTimecardService{closed: 1, err: errors.New("store down")}
	jobs := NewTimecardJobs(svc, time.Minute)

	assert.EqualError(t, jobs.AutoClockOut(context.Background()), "store down")
}

func TestScheduler_RunOnce(t *testing.T) {
	svc := &stubTimecardService{}
	scheduler := NewScheduler()
	NewTimecardJobs(svc, time.Hour).RegisterJobs(scheduler)

	scheduler.RunOnce(context.Background())

	assert.Equal(t, int32(1), svc.calls.Load())
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	svc := &stubTimecardService{}
	scheduler := NewScheduler()
	NewTimecardJobs(svc, time.Hour).RegisterJobs(scheduler)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Run(ctx) }()

	// The job runs once immediately on start.
	require.Eventually(t, func() bool { return svc.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
