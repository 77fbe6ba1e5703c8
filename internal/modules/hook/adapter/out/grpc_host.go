package out

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	hookrpc "pomodoro/internal/modules/hook/adapter/out/rpc"
	"pomodoro/internal/modules/hook/domain"
	hookout "pomodoro/internal/modules/hook/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost launches each hook binary per call and talks to it over go-plugin gRPC.
type GRPCHost struct {
	logger hclog.Logger
}

// NewGRPCHost discards the hook process output when logger is nil.
func NewGRPCHost(logger hclog.Logger) hookout.Host {
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel})
	}
	return &GRPCHost{logger: logger}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	events := make([]domain.Event, 0, len(meta.Events))
	for _, event := range meta.Events {
		events = append(events, domain.Event(event))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Events: events}, nil
}

func (h *GRPCHost) Notify(ctx context.Context, manifest domain.Manifest, n domain.Notification) error {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.Notify(callCtx, &hookrpc.NotifyRequest{
		Event:    string(n.Event),
		Phase:    n.Phase,
		Duration: n.Duration,
		Count:    n.Count,
		Minutes:  n.Minutes,
		Error:    n.Error,
		At:       n.At.Format(time.RFC3339),
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", domain.ErrHookTimeout, manifest.Name)
		}
		return fmt.Errorf("notify hook: %w", err)
	}
	if !response.Accepted {
		return fmt.Errorf("hook %s rejected %s: %s", manifest.Name, n.Event, response.Message)
	}
	return nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (hookrpc.HookClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  hookrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          hookrpc.HookMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start hook client: %w", err)
	}
	raw, err := rpcClient.Dispense(hookrpc.HookMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense hook: %w", err)
	}
	typed, ok := raw.(hookrpc.HookClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("hook rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
