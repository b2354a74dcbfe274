// The reference renderer: an in-memory page model served over the
// go-plugin contract. It renders nothing; it answers the host's scripts
// and reports page events, which is all the flow needs.
package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"rsoc/internal/modules/rsocsession/adapter/out/rpc"
	sessiondomain "rsoc/internal/modules/rsocsession/domain"
	"rsoc/internal/platform/geometry"
	"rsoc/internal/platform/id"

	"github.com/hashicorp/go-plugin"
)

type screen int

const (
	screen1 screen = iota
	screen2
	sponsorPage
)

var elementRects = map[screen]*geometry.Rect{
	screen1: {X: 40, Y: 320, Width: 240, Height: 48},
	screen2: {X: 40, Y: 120, Width: 240, Height: 48},
}

type page struct {
	id      string
	url     string
	screen  screen
	loaded  bool
	covered bool
}

type server struct {
	mu     sync.Mutex
	ids    id.Generator
	pages  map[string]*page
	events []rpc.Event
}

func newServer() *server {
	return &server{ids: id.RandomHex{}, pages: map[string]*page{}}
}

func (s *server) CreateSurface(_ context.Context, _ *rpc.Empty) (*rpc.SurfaceRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	surfaceID := "surface-" + s.ids.New()
	s.pages[surfaceID] = &page{id: surfaceID}
	return &rpc.SurfaceRef{SurfaceID: surfaceID}, nil
}

func (s *server) Load(_ context.Context, in *rpc.LoadRequest) (*rpc.Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[in.SurfaceID]
	if !ok {
		return nil, fmt.Errorf("unknown surface %s", in.SurfaceID)
	}
	p.url = in.URL
	p.loaded = true
	p.screen = screen1
	for _, script := range in.StartScripts {
		s.runScript(p, script)
	}
	s.events = append(s.events, rpc.Event{SurfaceID: p.id, Kind: rpc.EventLoad})
	return &rpc.Empty{}, nil
}

func (s *server) Evaluate(_ context.Context, in *rpc.EvaluateRequest) (*rpc.EvaluateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[in.SurfaceID]
	if !ok {
		return &rpc.EvaluateResponse{Error: "unknown surface"}, nil
	}
	if !p.loaded {
		return &rpc.EvaluateResponse{Error: "no document"}, nil
	}
	s.runScript(p, in.Script)
	return &rpc.EvaluateResponse{}, nil
}

func (s *server) SetPresentation(_ context.Context, in *rpc.PresentationRequest) (*rpc.Empty, error) {
	// Presentation is host-side state; a real renderer would restyle its
	// window here. The model has nothing to do.
	return &rpc.Empty{}, nil
}

func (s *server) Tap(_ context.Context, in *rpc.SurfaceRef) (*rpc.Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[in.SurfaceID]
	if !ok || !p.loaded {
		return &rpc.Empty{}, nil
	}
	s.events = append(s.events, rpc.Event{SurfaceID: p.id, Kind: rpc.EventTap})
	switch p.screen {
	case screen1:
		p.screen = screen2
		s.events = append(s.events, rpc.Event{SurfaceID: p.id, Kind: rpc.EventNavigate, URL: p.url + "/step2"})
	case screen2:
		popup := &page{
			id:     "surface-" + s.ids.New(),
			url:    p.url + "/sponsor",
			screen: sponsorPage,
			loaded: true,
		}
		s.pages[popup.id] = popup
		s.events = append(s.events, rpc.Event{SurfaceID: p.id, Kind: rpc.EventPopup, URL: popup.url, PopupID: popup.id})
	}
	return &rpc.Empty{}, nil
}

func (s *server) DiscardSurface(_ context.Context, in *rpc.SurfaceRef) (*rpc.Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pages, in.SurfaceID)
	return &rpc.Empty{}, nil
}

func (s *server) PollEvents(_ context.Context, _ *rpc.Empty) (*rpc.PollResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return &rpc.PollResponse{Events: events}, nil
}

// runScript interprets the host's injected script vocabulary against the
// page model. Callers hold the lock.
func (s *server) runScript(p *page, script string) {
	switch {
	case strings.Contains(script, "getBoundingClientRect"):
		rect := elementRects[p.screen]
		if rect == nil {
			s.events = append(s.events, rpc.Event{
				SurfaceID: p.id,
				Kind:      rpc.EventMessage,
				Payload:   string(sessiondomain.ElementNotFoundMessage()),
			})
			return
		}
		s.events = append(s.events, rpc.Event{
			SurfaceID: p.id,
			Kind:      rpc.EventMessage,
			Payload:   string(sessiondomain.ElementRectMessage(*rect)),
		})
	case strings.Contains(script, "removeChild"):
		p.covered = false
	case strings.Contains(script, sessiondomain.InvisibilityStyleID):
		p.covered = true
	}
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: rpc.HandshakeConfig,
		Plugins:         rpc.PluginMap(newServer()),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
