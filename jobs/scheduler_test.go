package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls int32
	err   error
}

func (r *countingRefresher) RefreshCache(context.Context) error {
	atomic.AddInt32(&r.calls, 1)
	return r.err
}

func TestSchedulerRunsRefresh(t *testing.T) {
	refresher := &countingRefresher{}
	s, err := NewScheduler(refresher, 20*time.Millisecond)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&refresher.calls) >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerKeepsRunningAfterFailure(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("store down")}
	s, err := NewScheduler(refresher, 20*time.Millisecond)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&refresher.calls) >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNewSchedulerRejectsZeroInterval(t *testing.T) {
	_, err := NewScheduler(&countingRefresher{}, 0)
	assert.Error(t, err)
}
