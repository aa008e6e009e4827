package sim

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/fuzztruck/internal/ctxlog"
	"github.com/vk/fuzztruck/internal/metrics"
	"github.com/vk/fuzztruck/internal/wire"
)

// Options configures the simulator server.
type Options struct {
	Host      string
	Port      int
	Tick      float64 // distance per control step, in lot units
	MaxCycles int     // cycle limit per session; 0 means default
	Seed      int64   // 0 = deterministic default pose for every session
	Metrics   *metrics.Metrics
	Telemetry *Hub // nil disables telemetry
}

// Server accepts driver connections and runs one independent truck per
// connection.
type Server struct {
	opts     Options
	listener net.Listener

	rngMu sync.Mutex
	rng   *rand.Rand

	connMu sync.Mutex
	conns  map[net.Conn]struct{}

	wg sync.WaitGroup
}

// NewServer creates a server. Listen must be called before Serve.
func NewServer(opts Options) *Server {
	if opts.Tick <= 0 {
		opts.Tick = 0.02
	}
	if opts.MaxCycles <= 0 {
		opts.MaxCycles = 500
	}
	s := &Server{
		opts:  opts,
		conns: make(map[net.Conn]struct{}),
	}
	if opts.Seed != 0 {
		s.rng = rand.New(rand.NewSource(opts.Seed))
	}
	return s
}

// Listen binds the TCP listener. Split from Serve so callers (and tests)
// can learn the bound address before any connection is handled.
func (s *Server) Listen(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("simulator cannot listen on %s: %w", addr, err)
	}
	s.listener = listener
	ctxlog.FromContext(ctx).Info("Simulator listening.", "address", listener.Addr().String())
	return nil
}

// Addr returns the bound address. Only valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve runs the accept loop until ctx is cancelled, then closes every
// live session and waits for the handlers to drain.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return fmt.Errorf("Serve called before Listen")
	}

	go func() {
		<-ctx.Done()
		s.listener.Close()
		s.connMu.Lock()
		for conn := range s.conns {
			conn.Close()
		}
		s.connMu.Unlock()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.wg.Wait()
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		s.track(conn, true)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.track(conn, false)
			defer conn.Close()
			s.handleSession(ctx, conn)
		}()
	}
}

func (s *Server) track(conn net.Conn, add bool) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

// startPose picks the initial truck pose for a new session.
func (s *Server) startPose() Truck {
	if s.rng == nil {
		return DefaultPose()
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return RandomPose(s.rng)
}

// handleSession drives one connection through the wire protocol: pose
// requests are answered until the truck finishes or the cycle limit hits,
// at which point the connection is closed to signal end of session.
func (s *Server) handleSession(ctx context.Context, conn net.Conn) {
	session := uuid.NewString()
	ctx = ctxlog.With(ctx, "session", session, "remote_addr", conn.RemoteAddr().String())
	logger := ctxlog.FromContext(ctx)

	truck := s.startPose()
	logger.Info("Session started.", "x", truck.X, "y", truck.Y, "angle", truck.Angle)

	reader := bufio.NewReader(conn)
	cycles := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			logger.Info("Driver disconnected.", "cycles", cycles)
			s.finish(metrics.OutcomeAborted)
			return
		}

		if wire.IsStateRequest(line) {
			if truck.Done() || cycles >= s.opts.MaxCycles {
				s.endSession(ctx, &truck, cycles)
				return
			}
			if _, err := conn.Write([]byte(truck.Pose().Encode())); err != nil {
				logger.Warn("Failed to send pose.", "error", err)
				s.finish(metrics.OutcomeError)
				return
			}
			continue
		}

		steer, err := wire.ParseSteering(line)
		if err != nil {
			logger.Warn("Rejecting session after protocol violation.", "error", err)
			s.finish(metrics.OutcomeError)
			return
		}
		truck.Apply(steer, s.opts.Tick)
		cycles++
		if s.opts.Metrics != nil {
			s.opts.Metrics.CyclesTotal.Inc()
		}
		if s.opts.Telemetry != nil {
			s.opts.Telemetry.Broadcast(ctx, session, cycles, truck.Pose(), truck.Done(), truck.Docked())
		}
	}
}

// endSession closes out a finished run and records the outcome. The
// connection close itself is the protocol's end-of-session signal.
func (s *Server) endSession(ctx context.Context, truck *Truck, cycles int) {
	logger := ctxlog.FromContext(ctx)
	outcome := metrics.OutcomeMissed
	switch {
	case truck.Docked():
		outcome = metrics.OutcomeDocked
	case !truck.Done():
		outcome = metrics.OutcomeAborted // cycle limit
	}
	logger.Info("Session finished.",
		"outcome", outcome,
		"cycles", cycles,
		"x", truck.X,
		"y", truck.Y,
		"angle", truck.Angle,
	)
	s.finish(outcome)
}

func (s *Server) finish(outcome string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.Sessions.WithLabelValues(outcome).Inc()
	}
}
