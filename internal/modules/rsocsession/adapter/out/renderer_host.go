// Package out holds the session's outbound adapters: the out-of-process
// renderer host speaking the go-plugin contract.
package out

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"rsoc/internal/modules/rsocsession/adapter/out/rpc"
	sessionout "rsoc/internal/modules/rsocsession/port/out"
	apperrors "rsoc/internal/platform/errors"
	"rsoc/internal/platform/geometry"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
	defaultPollInterval = 50 * time.Millisecond
)

// RendererHost runs a renderer binary as a managed plugin process and
// hands out surfaces backed by it. RPC calls run on worker goroutines;
// every surface event and callback crosses back through the dispatch
// function, which must run its argument on the host's single execution
// context (the Bubble Tea loop uses Program.Send for this).
type RendererHost struct {
	binary   string
	dispatch func(func())
	logger   hclog.Logger

	pollInterval time.Duration

	client *plugin.Client
	rpc    rpc.RendererClient

	mu       sync.Mutex
	surfaces map[string]*rendererSurface
	stopPoll chan struct{}
	closed   bool
}

var _ sessionout.SurfaceFactory = (*RendererHost)(nil)

type HostOption func(*RendererHost)

// WithLogger routes plugin-process noise somewhere visible.
func WithLogger(logger hclog.Logger) HostOption {
	return func(h *RendererHost) { h.logger = logger }
}

// WithPollInterval tunes the event poll cadence.
func WithPollInterval(d time.Duration) HostOption {
	return func(h *RendererHost) { h.pollInterval = d }
}

// NewRendererHost prepares a host for the given renderer binary.
// dispatch must marshal its argument onto the host execution context.
func NewRendererHost(binary string, dispatch func(func()), opts ...HostOption) *RendererHost {
	h := &RendererHost{
		binary:       binary,
		dispatch:     dispatch,
		logger:       hclog.NewNullLogger(),
		pollInterval: defaultPollInterval,
		surfaces:     map[string]*rendererSurface{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start launches the renderer process and begins pumping its events.
func (h *RendererHost) Start(ctx context.Context) error {
	h.client = plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              exec.Command(h.binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger,
	})

	rpcClient, err := h.client.Client()
	if err != nil {
		h.client.Kill()
		return fmt.Errorf("start renderer: %w", err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		h.client.Kill()
		return fmt.Errorf("dispense renderer: %w", err)
	}
	typed, ok := raw.(rpc.RendererClient)
	if !ok {
		h.client.Kill()
		return fmt.Errorf("renderer rpc client type mismatch")
	}
	h.rpc = typed

	h.stopPoll = make(chan struct{})
	go h.pollLoop(h.stopPoll)
	return nil
}

// Close stops the poll loop and kills the renderer process.
func (h *RendererHost) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	stop := h.stopPoll
	h.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if h.client != nil {
		h.client.Kill()
	}
}

// New creates a renderer-backed surface. Creation is synchronous; the
// session calls it once per preload.
func (h *RendererHost) New() sessionout.Surface {
	ctx, cancel := context.WithTimeout(context.Background(), defaultCallTimeout)
	defer cancel()
	ref, err := h.rpc.CreateSurface(ctx)
	if err != nil {
		h.logger.Error("create surface", "error", err)
		return newDeadSurface()
	}
	s := &rendererSurface{host: h, id: ref.SurfaceID}
	h.mu.Lock()
	h.surfaces[s.id] = s
	h.mu.Unlock()
	return s
}

func (h *RendererHost) pollLoop(stop chan struct{}) {
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), defaultCallTimeout)
			resp, err := h.rpc.PollEvents(ctx)
			cancel()
			if err != nil {
				h.logger.Error("poll renderer events", "error", err)
				continue
			}
			for _, event := range resp.Events {
				h.routeEvent(event)
			}
		}
	}
}

func (h *RendererHost) routeEvent(event rpc.Event) {
	h.mu.Lock()
	surface := h.surfaces[event.SurfaceID]
	h.mu.Unlock()
	if surface == nil {
		return
	}
	h.dispatch(func() { surface.deliver(event) })
}

func (h *RendererHost) forget(id string) {
	h.mu.Lock()
	delete(h.surfaces, id)
	h.mu.Unlock()
}

// call runs an RPC off the host context and reports the error, if any,
// back on it.
func (h *RendererHost) call(fn func(ctx context.Context) error, report func(error)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultCallTimeout)
		defer cancel()
		err := fn(ctx)
		if err != nil {
			h.logger.Error("renderer call", "error", err)
		}
		if report != nil {
			h.dispatch(func() { report(err) })
		}
	}()
}

// rendererSurface proxies the surface capability over the renderer RPC.
// Handler fields are only touched from the host execution context.
type rendererSurface struct {
	host *RendererHost
	id   string

	hidden bool
	alpha  float64
	offset geometry.Offset

	startScripts []string

	onLoad     func(error)
	onNavigate func(string)
	onMessage  func([]byte)
	onPopup    func(sessionout.Surface, string)
	onTap      func()
}

var _ sessionout.Surface = (*rendererSurface)(nil)

func (s *rendererSurface) Load(url string) {
	req := &rpc.LoadRequest{SurfaceID: s.id, URL: url, StartScripts: s.startScripts}
	s.host.call(func(ctx context.Context) error {
		return s.host.rpc.Load(ctx, req)
	}, func(err error) {
		// Transport failure counts as a failed load; a reachable
		// renderer reports the outcome through a load event instead.
		if err != nil && s.onLoad != nil {
			s.onLoad(classifyLoadError(err))
		}
	})
}

func (s *rendererSurface) Evaluate(script string, done func(string, error)) {
	req := &rpc.EvaluateRequest{SurfaceID: s.id, Script: script}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultCallTimeout)
		defer cancel()
		resp, err := s.host.rpc.Evaluate(ctx, req)
		if err == nil && resp.Error != "" {
			err = fmt.Errorf("evaluate: %s", resp.Error)
		}
		result := ""
		if resp != nil {
			result = resp.Result
		}
		if done != nil {
			s.host.dispatch(func() { done(result, err) })
		}
	}()
}

func (s *rendererSurface) AddStartScript(script string) {
	s.startScripts = append(s.startScripts, script)
}

func (s *rendererSurface) SetHidden(hidden bool) {
	s.hidden = hidden
	s.pushPresentation()
}

func (s *rendererSurface) SetAlpha(alpha float64) {
	s.alpha = alpha
	s.pushPresentation()
}

func (s *rendererSurface) SetOffset(off geometry.Offset) {
	s.offset = off
	s.pushPresentation()
}

func (s *rendererSurface) pushPresentation() {
	req := &rpc.PresentationRequest{
		SurfaceID: s.id,
		Hidden:    s.hidden,
		Alpha:     s.alpha,
		DX:        s.offset.DX,
		DY:        s.offset.DY,
	}
	s.host.call(func(ctx context.Context) error {
		return s.host.rpc.SetPresentation(ctx, req)
	}, nil)
}

func (s *rendererSurface) OnLoad(fn func(error)) { s.onLoad = fn }

func (s *rendererSurface) OnNavigate(fn func(string)) { s.onNavigate = fn }

func (s *rendererSurface) OnMessage(fn func([]byte)) { s.onMessage = fn }

func (s *rendererSurface) OnPopup(fn func(sessionout.Surface, string)) { s.onPopup = fn }

func (s *rendererSurface) OnTap(fn func()) { s.onTap = fn }

// Tap forwards a host-side tap into the renderer, which decides whether
// it lands on the page's link.
func (s *rendererSurface) Tap() {
	ref := &rpc.SurfaceRef{SurfaceID: s.id}
	s.host.call(func(ctx context.Context) error {
		return s.host.rpc.Tap(ctx, ref)
	}, nil)
}

func (s *rendererSurface) Discard() {
	s.host.forget(s.id)
	ref := &rpc.SurfaceRef{SurfaceID: s.id}
	s.host.call(func(ctx context.Context) error {
		return s.host.rpc.DiscardSurface(ctx, ref)
	}, nil)
}

func (s *rendererSurface) deliver(event rpc.Event) {
	switch event.Kind {
	case rpc.EventLoad:
		if s.onLoad != nil {
			if event.Error != "" {
				s.onLoad(fmt.Errorf("%w: %s", apperrors.ErrLoadFailed, event.Error))
				return
			}
			s.onLoad(nil)
		}
	case rpc.EventNavigate:
		if s.onNavigate != nil {
			s.onNavigate(event.URL)
		}
	case rpc.EventMessage:
		if s.onMessage != nil {
			s.onMessage([]byte(event.Payload))
		}
	case rpc.EventPopup:
		if s.onPopup != nil {
			popup := &rendererSurface{host: s.host, id: event.PopupID}
			s.host.mu.Lock()
			s.host.surfaces[popup.id] = popup
			s.host.mu.Unlock()
			s.onPopup(popup, event.URL)
		}
	case rpc.EventTap:
		if s.onTap != nil {
			s.onTap()
		}
	}
}

// classifyLoadError maps an RPC failure onto the load sentinels: a
// deadline is a timeout, anything else a plain failure.
func classifyLoadError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", apperrors.ErrLoadTimeout, err)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrLoadFailed, err)
}

// deadSurface stands in when the renderer could not create a surface;
// its load always fails so the session tears down cleanly.
type deadSurface struct {
	onLoad func(error)
}

func newDeadSurface() *deadSurface { return &deadSurface{} }

var _ sessionout.Surface = (*deadSurface)(nil)

func (d *deadSurface) Load(string) {
	if d.onLoad != nil {
		d.onLoad(fmt.Errorf("%w: renderer unavailable", apperrors.ErrLoadFailed))
	}
}

func (d *deadSurface) Evaluate(_ string, done func(string, error)) {
	if done != nil {
		done("", fmt.Errorf("%w: renderer unavailable", apperrors.ErrSurfaceDiscarded))
	}
}

func (d *deadSurface) AddStartScript(string) {}

func (d *deadSurface) SetHidden(bool) {}

func (d *deadSurface) SetAlpha(float64) {}

func (d *deadSurface) SetOffset(geometry.Offset) {}

func (d *deadSurface) OnLoad(fn func(error)) { d.onLoad = fn }

func (d *deadSurface) OnNavigate(func(string)) {}

func (d *deadSurface) OnMessage(func([]byte)) {}

func (d *deadSurface) OnPopup(func(sessionout.Surface, string)) {}

func (d *deadSurface) OnTap(func()) {}

func (d *deadSurface) Discard() {}
