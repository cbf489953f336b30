package keepalive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stigoleg/keep-moving/internal/observability"
)

// ErrCleanupTimeout is reported when cleanup does not finish in time.
var ErrCleanupTimeout = errors.New("cleanup timeout exceeded")

// CleanupResource is anything with a named teardown step.
type CleanupResource interface {
	Cleanup() error
	Name() string
}

type cleanupStep struct {
	name string
	fn   func() error
}

// CleanupManager runs registered cleanup steps once, newest first, bounded
// by a timeout. Register the logger flush first so it runs last.
type CleanupManager struct {
	mu      sync.Mutex
	steps   []cleanupStep
	timeout time.Duration

	once sync.Once
	errs []error
}

// NewCleanupManager creates a manager. A non-positive timeout means five
// seconds.
func NewCleanupManager(timeout time.Duration) *CleanupManager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CleanupManager{timeout: timeout}
}

// Register adds a resource.
func (cm *CleanupManager) Register(resource CleanupResource) {
	cm.RegisterFunc(resource.Name(), resource.Cleanup)
}

// RegisterFunc adds a named cleanup function.
func (cm *CleanupManager) RegisterFunc(name string, fn func() error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.steps = append(cm.steps, cleanupStep{name: name, fn: fn})
}

// Clear drops every registered step without running it.
func (cm *CleanupManager) Clear() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.steps = nil
}

// Execute runs every step. Later calls return the first result.
func (cm *CleanupManager) Execute() []error {
	cm.once.Do(func() {
		cm.errs = cm.run()
	})
	return cm.errs
}

func (cm *CleanupManager) run() []error {
	cm.mu.Lock()
	steps := append([]cleanupStep(nil), cm.steps...)
	cm.mu.Unlock()

	if len(steps) == 0 {
		return nil
	}

	logger := observability.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		errs []error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := len(steps) - 1; i >= 0; i-- {
			if err := runStep(logger, steps[i]); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("cleanup: timeout, some steps did not finish", zap.Duration("timeout", cm.timeout))
		mu.Lock()
		errs = append(errs, ErrCleanupTimeout)
		mu.Unlock()
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]error(nil), errs...)
}

// runStep runs one step, turning a panic into an error.
func runStep(logger *zap.Logger, step cleanupStep) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic cleaning up %s: %v", step.name, r)
			logger.Error("cleanup: panic", zap.String("step", step.name), zap.Any("panic", r))
		}
	}()

	if err := step.fn(); err != nil {
		logger.Warn("cleanup: failed", zap.String("step", step.name), zap.Error(err))
		return fmt.Errorf("%s: %w", step.name, err)
	}
	logger.Debug("cleanup: done", zap.String("step", step.name))
	return nil
}
