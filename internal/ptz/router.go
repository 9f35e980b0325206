package ptz

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Outcome labels for onvif_ptz_commands_total.
const (
	OutcomeSent     = "sent"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

var ptzCommandsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "onvif_ptz_commands_total",
		Help: "PTZ commands forwarded to the actuator, by outcome.",
	},
	[]string{"command", "outcome"},
)

func init() {
	prometheus.MustRegister(ptzCommandsTotal)
}

// DefaultTimeout bounds a single actuator request.
const DefaultTimeout = 3 * time.Second

// Router turns PTZ operations into actuator requests. Requests are
// fire-and-forget: failures are logged and counted, never returned.
type Router struct {
	commands CommandSet
	client   *http.Client
	logger   *zap.Logger
	settle   time.Duration
}

// Option configures a Router.
type Option func(*Router)

// WithHTTPClient replaces the actuator HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Router) { r.client = c }
}

// WithSettle overrides RelativeMoveSettle.
func WithSettle(d time.Duration) Option {
	return func(r *Router) { r.settle = d }
}

// NewRouter creates a router for commands.
func NewRouter(commands CommandSet, logger *zap.Logger, opts ...Option) *Router {
	r := &Router{
		commands: commands,
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   logger,
		settle:   RelativeMoveSettle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Commands returns the configured command set.
func (r *Router) Commands() CommandSet {
	return r.commands
}

func (r *Router) Stop(ctx context.Context) {
	u, ok := r.commands.StopURL()
	r.dispatch(ctx, "stop", u, ok)
}

func (r *Router) GotoHome(ctx context.Context) {
	u, ok := r.commands.GotoHomeURL()
	r.dispatch(ctx, "goto_home", u, ok)
}

func (r *Router) GotoPreset(ctx context.Context, token string) {
	u, ok := r.commands.GotoPresetURL(token)
	r.dispatch(ctx, "goto_preset", u, ok)
}

func (r *Router) ContinuousMove(ctx context.Context, m Move) {
	u, ok := r.commands.ContinuousURL(m)
	r.dispatch(ctx, "continuous_move", u, ok)
}

// RelativeMove starts a continuous move and, when both axes are present,
// stops it after the settle delay. A cancelled context cuts the delay short
// but the stop is still sent.
func (r *Router) RelativeMove(ctx context.Context, m Move) {
	u, ok := r.commands.ContinuousURL(m)
	r.dispatch(ctx, "relative_move", u, ok)
	if !m.BothAxes() {
		return
	}

	timer := time.NewTimer(r.settle)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	r.Stop(context.WithoutCancel(ctx))
}

func (r *Router) dispatch(ctx context.Context, command, url string, ok bool) {
	if !ok {
		r.logger.Debug("ptz command not configured",
			zap.String("command", command),
		)
		ptzCommandsTotal.WithLabelValues(command, OutcomeSkipped).Inc()
		return
	}
	ptzCommandsTotal.WithLabelValues(command, r.send(ctx, command, url)).Inc()
}

func (r *Router) send(ctx context.Context, command, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		r.logger.Warn("invalid ptz actuator url",
			zap.String("command", command),
			zap.String("url", url),
			zap.Error(err),
		)
		return OutcomeFailed
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("ptz actuator request failed",
			zap.String("command", command),
			zap.String("url", url),
			zap.Error(err),
		)
		return OutcomeFailed
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Warn("ptz actuator returned non-success status",
			zap.String("command", command),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return OutcomeRejected
	}

	r.logger.Debug("ptz command sent",
		zap.String("command", command),
		zap.String("url", url),
	)
	return OutcomeSent
}
