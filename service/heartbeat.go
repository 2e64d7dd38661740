package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"webservers/domain"
	"webservers/helpers"
	"webservers/interfaces"
	"webservers/telemetry"

	"github.com/benbjohnson/clock"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// DefaultHeartbeatInterval is the pulse period of a registered server.
const DefaultHeartbeatInterval = 60 * time.Second

// ErrHeartbeatStarted is returned by Start when the heartbeat has already been started or stopped.
var ErrHeartbeatStarted = errors.New("heartbeat already started")

// ErrHeartbeatStopped is returned by Start when Stop ran while the initial registration was in flight.
var ErrHeartbeatStopped = errors.New("heartbeat stopped during start")

// HeartbeatState is the registration state of a Heartbeat.
type HeartbeatState int32

const (
	HeartbeatUnregistered HeartbeatState = iota
	HeartbeatRegistered
	// HeartbeatDeregistered is terminal.
	HeartbeatDeregistered
)

func (s HeartbeatState) String() string {
	switch s {
	case HeartbeatUnregistered:
		return "unregistered"
	case HeartbeatRegistered:
		return "registered"
	case HeartbeatDeregistered:
		return "deregistered"
	default:
		return "unknown"
	}
}

// HeartbeatOption configures a Heartbeat.
type HeartbeatOption func(*Heartbeat)

// WithStateListener registers fn to be called after every state transition. fn must not block.
func WithStateListener(fn func(HeartbeatState)) HeartbeatOption {
	return func(h *Heartbeat) {
		h.onState = fn
	}
}

// Heartbeat keeps one (address, port) row of a heartbeating kind alive in the endpoint store.
//
// Start registers the row and starts a loop that refreshes last_pulse every interval. Stop ends the
// loop and removes the row. A failed beat is logged and retried on the next tick.
type Heartbeat struct {
	registry interfaces.EndpointRegistry
	kind     domain.Kind
	address  string
	port     int
	interval time.Duration
	clock    clock.Clock
	logger   log.Logger
	onState  func(HeartbeatState)

	mu       sync.Mutex
	state    HeartbeatState
	starting bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewHeartbeat creates a Heartbeat for (address, port) of kind. Panics on nil dependencies,
// an empty address, a port outside 1..65535 or a kind without a pulse column.
// A non-positive interval falls back to DefaultHeartbeatInterval.
//
// Called from cmd/patchserver.
func NewHeartbeat(
	registry interfaces.EndpointRegistry,
	kind domain.Kind,
	address string,
	port int,
	interval time.Duration,
	clk clock.Clock,
	logger log.Logger,
	opts ...HeartbeatOption,
) *Heartbeat {
	if !kind.Heartbeating() {
		panic("service.heartbeat.go: kind must carry a pulse column")
	}
	if port < 1 || port > 65535 {
		panic("service.heartbeat.go: port must be in 1..65535")
	}
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	h := &Heartbeat{
		registry: helpers.NilPanic(registry, "service.heartbeat.go: registry is required"),
		kind:     kind,
		address:  helpers.StrPanic(address, "service.heartbeat.go: address is required"),
		port:     port,
		interval: interval,
		clock:    helpers.NilPanic(clk, "service.heartbeat.go: clock is required"),
		logger: log.With(helpers.NilPanic(logger, "service.heartbeat.go: logger is required"),
			"component", "Heartbeat", "kind", kind, "address", address, "port", port),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// State returns the current registration state.
func (h *Heartbeat) State() HeartbeatState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Start registers the row with the current time and starts the pulse loop. A failed registration
// is returned and leaves the heartbeat unregistered. The loop outlives ctx; only Stop ends it.
func (h *Heartbeat) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.state != HeartbeatUnregistered || h.starting {
		h.mu.Unlock()
		return ErrHeartbeatStarted
	}
	h.starting = true
	h.mu.Unlock()

	err := h.registry.Upsert(ctx, h.kind, h.address, h.port, h.clock.Now().UTC())

	h.mu.Lock()
	h.starting = false
	if err != nil {
		h.mu.Unlock()
		telemetry.HeartbeatsTotal.WithLabelValues(string(h.kind), "error").Inc()
		return err
	}
	if h.state != HeartbeatUnregistered {
		h.mu.Unlock()
		h.deregister(ctx)
		return ErrHeartbeatStopped
	}
	telemetry.HeartbeatsTotal.WithLabelValues(string(h.kind), "ok").Inc()

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	ticker := h.clock.Ticker(h.interval)
	h.cancel = cancel
	h.done = make(chan struct{})
	h.state = HeartbeatRegistered
	go h.loop(loopCtx, ticker, h.done)
	h.mu.Unlock()

	level.Info(h.logger).Log("msg", "registered", "interval", h.interval)
	h.notify(HeartbeatRegistered)
	return nil
}

// Stop ends the pulse loop, waits for an in-flight beat, then deletes the row. Both the wait and the
// delete are bounded by ctx; a failed delete is only logged. When ctx ends before the loop does, the
// row is left to age out instead. Safe to call more than once and before Start.
func (h *Heartbeat) Stop(ctx context.Context) {
	h.mu.Lock()
	prev := h.state
	if prev == HeartbeatDeregistered {
		h.mu.Unlock()
		return
	}
	h.state = HeartbeatDeregistered
	cancel, done := h.cancel, h.done
	h.mu.Unlock()

	if prev == HeartbeatRegistered {
		cancel()
		select {
		case <-done:
			h.deregister(ctx)
		case <-ctx.Done():
			// A beat still in flight could write the row back after a delete.
			level.Warn(h.logger).Log("msg", "pulse loop did not stop in time, row will age out of the liveness window", "err", ctx.Err())
		}
	}
	h.notify(HeartbeatDeregistered)
}

func (h *Heartbeat) loop(ctx context.Context, ticker *clock.Ticker, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.beat(ctx)
		}
	}
}

// beat refreshes last_pulse once. Cancellation of the loop does not abort a beat already in flight.
func (h *Heartbeat) beat(ctx context.Context) {
	beatCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.interval)
	defer cancel()

	if err := h.registry.Upsert(beatCtx, h.kind, h.address, h.port, h.clock.Now().UTC()); err != nil {
		telemetry.HeartbeatsTotal.WithLabelValues(string(h.kind), "error").Inc()
		level.Warn(h.logger).Log("msg", "heartbeat failed, retrying on next tick", "err", err)
		return
	}
	telemetry.HeartbeatsTotal.WithLabelValues(string(h.kind), "ok").Inc()
	level.Debug(h.logger).Log("msg", "heartbeat")
}

func (h *Heartbeat) deregister(ctx context.Context) {
	if err := h.registry.Delete(ctx, h.kind, h.address, h.port); err != nil {
		level.Warn(h.logger).Log("msg", "deregistration failed", "err", err)
		return
	}
	level.Info(h.logger).Log("msg", "deregistered")
}

func (h *Heartbeat) notify(state HeartbeatState) {
	if h.onState != nil {
		h.onState(state)
	}
}
