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
	HookMapKey        = "pomodoro-hook"
	serviceName       = "pomodoro.hook.v1.Hook"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodNotify      = "/" + serviceName + "/Notify"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "POMODORO_HOOK",
	MagicCookieValue: "pomodoro",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return jsonCodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Events  []string `json:"events"`
}

type NotifyRequest struct {
	Event    string `json:"event"`
	Phase    string `json:"phase,omitempty"`
	Duration int    `json:"duration,omitempty"`
	Count    int    `json:"count,omitempty"`
	Minutes  int    `json:"minutes,omitempty"`
	Error    string `json:"error,omitempty"`
	At       string `json:"at"`
}

type NotifyResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

type HookServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Notify(ctx context.Context, in *NotifyRequest) (*NotifyResponse, error)
}

type HookClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Notify(ctx context.Context, in *NotifyRequest) (*NotifyResponse, error)
}

type hookClient struct {
	conn *grpc.ClientConn
}

func NewHookClient(conn *grpc.ClientConn) HookClient {
	return &hookClient{conn: conn}
}

func (c *hookClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hookClient) Notify(ctx context.Context, in *NotifyRequest) (*NotifyResponse, error) {
	out := &NotifyResponse{}
	if err := c.conn.Invoke(ctx, methodNotify, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// unary adapts a typed server method to a grpc.MethodDesc handler.
func unary[Req any, Resp any](fullMethod string, call func(context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterHookServer(server grpc.ServiceRegistrar, impl HookServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*HookServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "GetMetadata", Handler: unary(methodGetMetadata, impl.GetMetadata)},
			{MethodName: "Notify", Handler: unary(methodNotify, impl.Notify)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "hook-rpc-v1",
	}, impl)
}

type GRPCHook struct {
	plugin.NetRPCUnsupportedPlugin
	Impl HookServer
}

func (p *GRPCHook) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterHookServer(server, p.Impl)
	return nil
}

func (p *GRPCHook) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewHookClient(conn), nil
}

func HookMap(impl HookServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		HookMapKey: &GRPCHook{Impl: impl},
	}
}
