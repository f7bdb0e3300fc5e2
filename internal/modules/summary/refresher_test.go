package summary

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type countingService struct {
	Service
	calls atomic.Int32
}

func (c *countingService) RefreshAll(context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestRunPeriodic_Disabled(t *testing.T) {
	svc := &countingService{}
	done := make(chan struct{})
	go func() {
		RunPeriodic(context.Background(), svc, 0, zaptest.NewLogger(t))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled refresher did not return")
	}
	assert.Zero(t, svc.calls.Load())
}

func TestRunPeriodic_TicksUntilCancelled(t *testing.T) {
	svc := &countingService{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunPeriodic(ctx, svc, 10*time.Millisecond, zaptest.NewLogger(t))
		close(done)
	}()

	assert.Eventually(t, func() bool { return svc.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
