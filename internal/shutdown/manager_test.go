package shutdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pixelsorter/internal/logger"
)

func TestShutdownRunsComponentsInReverseOnce(t *testing.T) {
	m := NewManager(context.Background(), logger.NewNop())

	var order []int
	for i := 0; i < 3; i++ {
		m.Register("step", ShutdownFunc(func() { order = append(order, i) }))
	}

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []int{2, 1, 0}, order)
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)

	select {
	case <-m.Done():
	default:
		t.Fatal("Done must be closed after Shutdown")
	}
}

func TestShutdownAbandonsSlowComponent(t *testing.T) {
	m := NewManager(context.Background(), nil)
	m.timeout = 10 * time.Millisecond

	release := make(chan struct{})
	defer close(release)
	m.Register("stuck", ShutdownFunc(func() { <-release }))

	finished := make(chan struct{})
	go func() {
		m.Shutdown()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Shutdown blocked on a stuck component")
	}
}

func TestParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(parent, logger.NewNop())
	m.Listen()
	defer m.Shutdown()

	cancel()
	<-m.Context().Done()
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
}
