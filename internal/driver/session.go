package driver

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vk/fuzztruck/internal/controller"
	"github.com/vk/fuzztruck/internal/ctxlog"
	"github.com/vk/fuzztruck/internal/metrics"
	"github.com/vk/fuzztruck/internal/wire"
)

// Session is one complete drive: poll, infer, steer, repeat until the
// simulator ends the session or the cycle limit hits.
type Session struct {
	client    *Client
	ctrl      *controller.Controller
	metrics   *metrics.Metrics
	maxCycles int
	id        string
}

// Summary describes how a session ended. Completed means the simulator
// closed the session itself; false means the driver gave up at the cycle
// limit or was cancelled.
type Summary struct {
	Cycles    int
	Completed bool
	LastState wire.State
}

// NewSession wires a connected client to a controller. maxCycles guards
// against a simulator that never ends the session.
func NewSession(client *Client, ctrl *controller.Controller, m *metrics.Metrics, maxCycles int) *Session {
	if maxCycles <= 0 {
		maxCycles = 500
	}
	return &Session{
		client:    client,
		ctrl:      ctrl,
		metrics:   m,
		maxCycles: maxCycles,
		id:        uuid.NewString(),
	}
}

// Run executes the control loop. A context cancellation aborts cleanly
// with the summary so far.
func (s *Session) Run(ctx context.Context) (*Summary, error) {
	ctx = ctxlog.With(ctx, "session", s.id, "controller", s.ctrl.Name())
	logger := ctxlog.FromContext(ctx)
	logger.Info("Drive session starting.", "max_cycles", s.maxCycles)

	summary := &Summary{}
	for summary.Cycles < s.maxCycles {
		if err := ctx.Err(); err != nil {
			logger.Info("Drive session cancelled.", "cycles", summary.Cycles)
			s.outcome(metrics.OutcomeAborted)
			return summary, err
		}

		st, err := s.client.Poll()
		if errors.Is(err, ErrSessionDone) {
			summary.Completed = true
			break
		}
		if err != nil {
			s.outcome(metrics.OutcomeError)
			return summary, err
		}
		summary.LastState = st

		start := time.Now()
		steer, err := s.ctrl.Steer(ctx, st)
		if err != nil {
			s.outcome(metrics.OutcomeError)
			return summary, err
		}
		if s.metrics != nil {
			s.metrics.InferenceDuration.Observe(time.Since(start).Seconds())
			s.metrics.SteeringOutput.Observe(steer)
		}

		if err := s.client.Steer(steer); err != nil {
			s.outcome(metrics.OutcomeError)
			return summary, err
		}
		summary.Cycles++
		if s.metrics != nil {
			s.metrics.CyclesTotal.Inc()
		}
		logger.Debug("Cycle complete.",
			"cycle", summary.Cycles,
			"x", st.X,
			"y", st.Y,
			"angle", st.Angle,
			"steering", steer,
		)
	}

	if summary.Completed {
		logger.Info("Drive session finished.", "cycles", summary.Cycles,
			"x", summary.LastState.X, "y", summary.LastState.Y, "angle", summary.LastState.Angle)
		// The simulator does not say why it ended the session, so judge
		// docking from the last reported pose.
		if summary.LastState.Docked() {
			s.outcome(metrics.OutcomeDocked)
		} else {
			s.outcome(metrics.OutcomeMissed)
		}
	} else {
		logger.Warn("Drive session hit the cycle limit.", "cycles", summary.Cycles)
		s.outcome(metrics.OutcomeAborted)
	}
	return summary, nil
}

func (s *Session) outcome(o string) {
	if s.metrics != nil {
		s.metrics.Sessions.WithLabelValues(o).Inc()
	}
}
