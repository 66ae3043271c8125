package server

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blockingService blocks in Start until Stop is called.
type blockingService struct {
	started atomic.Bool
	stopped atomic.Bool
	done    chan struct{}
}

func newBlockingService() *blockingService {
	return &blockingService{done: make(chan struct{})}
}

func (s *blockingService) Start() error {
	s.started.Store(true)
	<-s.done
	return nil
}

func (s *blockingService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.done)
	}
}

// TestLifecycle_RunStopsOnContextCancel verifies all services are stopped
// when the context is cancelled.
func TestLifecycle_RunStopsOnContextCancel(t *testing.T) {
	l := NewLifecycle(zap.NewNop())
	svcA := newBlockingService()
	svcB := newBlockingService()
	l.Add("a", svcA)
	l.Add("b", svcB)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	// Give the services a moment to start, then cancel.
	require.Eventually(t, func() bool {
		return svcA.started.Load() && svcB.started.Load()
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
	assert.True(t, svcA.stopped.Load(), "service a must be stopped")
	assert.True(t, svcB.stopped.Load(), "service b must be stopped")
}

// TestLifecycle_ServiceErrorTriggersShutdown verifies a failing service
// causes the remaining services to be stopped.
func TestLifecycle_ServiceErrorTriggersShutdown(t *testing.T) {
	l := NewLifecycle(zap.NewNop())
	healthy := newBlockingService()
	l.Add("healthy", healthy)
	l.Add("failing", &FuncService{
		StartFn: func() error { return assert.AnError },
		StopFn:  func() {},
	})

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(context.Background()) }()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after service failure")
	}
	assert.True(t, healthy.stopped.Load(), "healthy service must be stopped on peer failure")
}

// TestFuncService delegates to the wrapped functions.
func TestFuncService(t *testing.T) {
	startCalled := false
	stopCalled := false
	svc := &FuncService{
		StartFn: func() error { startCalled = true; return nil },
		StopFn:  func() { stopCalled = true },
	}
	require.NoError(t, svc.Start())
	svc.Stop()
	assert.True(t, startCalled)
	assert.True(t, stopCalled)
}
