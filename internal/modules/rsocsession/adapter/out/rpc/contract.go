// Package rpc is the wire contract between the host and an
// out-of-process content renderer. It speaks gRPC over hashicorp
// go-plugin with a JSON codec, so renderer binaries need no protobuf
// toolchain.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey  = "rsoc"
	serviceName   = "rsoc.renderer.v1.Renderer"
	jsonCodecName = "json"

	methodCreateSurface   = "/" + serviceName + "/CreateSurface"
	methodLoad            = "/" + serviceName + "/Load"
	methodEvaluate        = "/" + serviceName + "/Evaluate"
	methodSetPresentation = "/" + serviceName + "/SetPresentation"
	methodTap             = "/" + serviceName + "/Tap"
	methodDiscardSurface  = "/" + serviceName + "/DiscardSurface"
	methodPollEvents      = "/" + serviceName + "/PollEvents"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "RSOC_RENDERER",
	MagicCookieValue: "rsoc",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type SurfaceRef struct {
	SurfaceID string `json:"surface_id"`
}

type LoadRequest struct {
	SurfaceID    string   `json:"surface_id"`
	URL          string   `json:"url"`
	StartScripts []string `json:"start_scripts"`
}

type EvaluateRequest struct {
	SurfaceID string `json:"surface_id"`
	Script    string `json:"script"`
}

type EvaluateResponse struct {
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

type PresentationRequest struct {
	SurfaceID string  `json:"surface_id"`
	Hidden    bool    `json:"hidden"`
	Alpha     float64 `json:"alpha"`
	DX        float64 `json:"dx"`
	DY        float64 `json:"dy"`
}

// Event kinds reported by PollEvents.
const (
	EventLoad     = "load"
	EventNavigate = "navigate"
	EventMessage  = "message"
	EventPopup    = "popup"
	EventTap      = "tap"
)

type Event struct {
	SurfaceID string `json:"surface_id"`
	Kind      string `json:"kind"`
	URL       string `json:"url,omitempty"`
	Payload   string `json:"payload,omitempty"`
	Error     string `json:"error,omitempty"`
	// PopupID carries the renderer-assigned id of a freshly opened
	// browsing context on popup events.
	PopupID string `json:"popup_id,omitempty"`
}

type PollResponse struct {
	Events []Event `json:"events"`
}

type RendererServer interface {
	CreateSurface(ctx context.Context, in *Empty) (*SurfaceRef, error)
	Load(ctx context.Context, in *LoadRequest) (*Empty, error)
	Evaluate(ctx context.Context, in *EvaluateRequest) (*EvaluateResponse, error)
	SetPresentation(ctx context.Context, in *PresentationRequest) (*Empty, error)
	Tap(ctx context.Context, in *SurfaceRef) (*Empty, error)
	DiscardSurface(ctx context.Context, in *SurfaceRef) (*Empty, error)
	PollEvents(ctx context.Context, in *Empty) (*PollResponse, error)
}

type RendererClient interface {
	CreateSurface(ctx context.Context) (*SurfaceRef, error)
	Load(ctx context.Context, in *LoadRequest) error
	Evaluate(ctx context.Context, in *EvaluateRequest) (*EvaluateResponse, error)
	SetPresentation(ctx context.Context, in *PresentationRequest) error
	Tap(ctx context.Context, in *SurfaceRef) error
	DiscardSurface(ctx context.Context, in *SurfaceRef) error
	PollEvents(ctx context.Context) (*PollResponse, error)
}

type rendererClient struct {
	conn *grpc.ClientConn
}

func NewRendererClient(conn *grpc.ClientConn) RendererClient {
	return &rendererClient{conn: conn}
}

func (c *rendererClient) invoke(ctx context.Context, method string, in, out any) error {
	return c.conn.Invoke(ctx, method, in, out, grpc.CallContentSubtype(jsonCodecName))
}

func (c *rendererClient) CreateSurface(ctx context.Context) (*SurfaceRef, error) {
	out := &SurfaceRef{}
	if err := c.invoke(ctx, methodCreateSurface, &Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rendererClient) Load(ctx context.Context, in *LoadRequest) error {
	return c.invoke(ctx, methodLoad, in, &Empty{})
}

func (c *rendererClient) Evaluate(ctx context.Context, in *EvaluateRequest) (*EvaluateResponse, error) {
	out := &EvaluateResponse{}
	if err := c.invoke(ctx, methodEvaluate, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rendererClient) SetPresentation(ctx context.Context, in *PresentationRequest) error {
	return c.invoke(ctx, methodSetPresentation, in, &Empty{})
}

func (c *rendererClient) Tap(ctx context.Context, in *SurfaceRef) error {
	return c.invoke(ctx, methodTap, in, &Empty{})
}

func (c *rendererClient) DiscardSurface(ctx context.Context, in *SurfaceRef) error {
	return c.invoke(ctx, methodDiscardSurface, in, &Empty{})
}

func (c *rendererClient) PollEvents(ctx context.Context) (*PollResponse, error) {
	out := &PollResponse{}
	if err := c.invoke(ctx, methodPollEvents, &Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// unary adapts a typed server method to the grpc handler shape,
// preserving interceptor plumbing.
func unary[Req any](method string, call func(ctx context.Context, in *Req) (any, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		})
	}
}

func RegisterRendererServer(server grpc.ServiceRegistrar, impl RendererServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*RendererServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "CreateSurface",
				Handler: unary(methodCreateSurface, func(ctx context.Context, in *Empty) (any, error) {
					return impl.CreateSurface(ctx, in)
				}),
			},
			{
				MethodName: "Load",
				Handler: unary(methodLoad, func(ctx context.Context, in *LoadRequest) (any, error) {
					return impl.Load(ctx, in)
				}),
			},
			{
				MethodName: "Evaluate",
				Handler: unary(methodEvaluate, func(ctx context.Context, in *EvaluateRequest) (any, error) {
					return impl.Evaluate(ctx, in)
				}),
			},
			{
				MethodName: "SetPresentation",
				Handler: unary(methodSetPresentation, func(ctx context.Context, in *PresentationRequest) (any, error) {
					return impl.SetPresentation(ctx, in)
				}),
			},
			{
				MethodName: "Tap",
				Handler: unary(methodTap, func(ctx context.Context, in *SurfaceRef) (any, error) {
					return impl.Tap(ctx, in)
				}),
			},
			{
				MethodName: "DiscardSurface",
				Handler: unary(methodDiscardSurface, func(ctx context.Context, in *SurfaceRef) (any, error) {
					return impl.DiscardSurface(ctx, in)
				}),
			},
			{
				MethodName: "PollEvents",
				Handler: unary(methodPollEvents, func(ctx context.Context, in *Empty) (any, error) {
					return impl.PollEvents(ctx, in)
				}),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/renderer-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl RendererServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterRendererServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewRendererClient(conn), nil
}

func PluginMap(impl RendererServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
