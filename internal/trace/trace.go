// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trace records the decision trail of an analysis run. Each step is
// both logged live and kept in order, so the final bundle can replay why
// every entity ended up searched, answered locally, or skipped.
//
// See docs/ARCHITECTURE.md § Reasoning Trace.
package trace

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

// Step levels, recorded verbatim in the bundle.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarn    = "warning"
	LevelError   = "error"
)

// Tracker collects ordered reasoning steps. Safe for concurrent use; the
// research pool reports from multiple goroutines.
type Tracker struct {
	mu     sync.Mutex
	steps  []types.ReasoningStep
	logger *zap.Logger
}

// New returns a Tracker that mirrors steps to logger. A nil logger disables
// mirroring but still records.
func New(logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{logger: logger}
}

var nowFunc = time.Now

func (t *Tracker) record(level, format string, args ...any) {
	step := types.ReasoningStep{
		Timestamp: nowFunc().Format("15:04:05"),
		Step:      fmt.Sprintf(format, args...),
		Level:     level,
	}

	t.mu.Lock()
	t.steps = append(t.steps, step)
	t.mu.Unlock()

	switch level {
	case LevelWarn:
		t.logger.Warn(step.Step)
	case LevelError:
		t.logger.Error(step.Step)
	default:
		t.logger.Info(step.Step, zap.String("level", level))
	}
}

// Info records a routine step.
func (t *Tracker) Info(format string, args ...any) { t.record(LevelInfo, format, args...) }

// Success records a step that resolved an entity or phase.
func (t *Tracker) Success(format string, args ...any) { t.record(LevelSuccess, format, args...) }

// Warn records a degraded-but-continuing step, like a failed search.
func (t *Tracker) Warn(format string, args ...any) { t.record(LevelWarn, format, args...) }

// Error records a failure step.
func (t *Tracker) Error(format string, args ...any) { t.record(LevelError, format, args...) }

// Steps returns a copy of the recorded steps in order.
func (t *Tracker) Steps() []types.ReasoningStep {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.ReasoningStep, len(t.steps))
	copy(out, t.steps)
	return out
}
