// Package shutdown ties the run context to process signals and releases
// registered components when the run ends.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"pixelsorter/internal/logger"
)

type Shutdownable interface {
	Shutdown()
}

// ShutdownFunc adapts a plain function to Shutdownable
type ShutdownFunc func()

func (f ShutdownFunc) Shutdown() {
	f()
}

type component struct {
	name string
	Shutdownable
}

// Manager owns the run context. A termination signal or an explicit
// Shutdown cancels it and shuts components down newest first.
type Manager struct {
	logger  logger.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration

	mu         sync.Mutex
	components []component
	once       sync.Once
	done       chan struct{}
}

func NewManager(parent context.Context, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)

	return &Manager{
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
}

// Register adds a component to shut down; name is only used in logs
func (m *Manager) Register(name string, c Shutdownable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component{name: name, Shutdownable: c})
}

// Listen turns SIGINT and SIGTERM into Shutdown until Shutdown has run
func (m *Manager) Listen() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case sig := <-signals:
			m.logger.Warning("Shutdown", "interrupted", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
		case <-m.done:
		}
	}()
}

// Shutdown cancels the context and shuts every component down once.
// A component that does not return within the timeout is abandoned.
func (m *Manager) Shutdown() {
	m.once.Do(func() {
		m.cancel()

		m.mu.Lock()
		components := m.components
		m.components = nil
		m.mu.Unlock()

		for i := len(components) - 1; i >= 0; i-- {
			m.shutdownOne(components[i])
		}

		close(m.done)
		m.logger.Debug("Shutdown", "all components stopped", map[string]interface{}{
			"components": len(components),
		})
	})
}

func (m *Manager) shutdownOne(c component) {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		c.Shutdown()
	}()

	select {
	case <-finished:
	case <-time.After(m.timeout):
		m.logger.Warning("Shutdown", "component did not stop in time", map[string]interface{}{
			"component": c.name,
			"timeout":   m.timeout.String(),
		})
	}
}

func (m *Manager) Context() context.Context {
	return m.ctx
}

// Done is closed once Shutdown has finished
func (m *Manager) Done() <-chan struct{} {
	return m.done
}
