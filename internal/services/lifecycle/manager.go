package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// StopFunc releases one component during shutdown.
type StopFunc func(ctx context.Context) error

type stage struct {
	name string
	stop StopFunc
}

// Manager owns the shutdown stack. Components register in startup order
// and are stopped in reverse, so consumers go down before the stores they
// depend on.
type Manager struct {
	grace  time.Duration
	logger *zap.Logger

	mu    sync.Mutex
	stack []stage
}

func New(grace time.Duration, logger *zap.Logger) *Manager {
	if grace <= 0 {
		grace = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{grace: grace, logger: logger}
}

// Register pushes a component onto the shutdown stack.
func (m *Manager) Register(name string, stop StopFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	m.stack = append(m.stack, stage{name: name, stop: stop})
	m.mu.Unlock()
}

// Listen arms the SIGTERM/SIGINT handler; the first signal fires cancel.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigs)
		sig := <-sigs
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}

// Shutdown pops the stack within the grace window. A failing stage is
// logged and skipped; the rest still get their chance to stop.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.grace)
	defer cancel()

	m.mu.Lock()
	stack := m.stack
	m.stack = nil
	m.mu.Unlock()

	var failures error
	for i := len(stack) - 1; i >= 0; i-- {
		s := stack[i]
		started := time.Now()
		if err := s.stop(ctx); err != nil {
			m.logger.Error("component stop failed",
				zap.String("component", s.name), zap.Error(err))
			failures = errors.Join(failures, err)
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", s.name),
			zap.Duration("took", time.Since(started)))
	}
	return failures
}
