// Command notify-log is a sample hook that writes every timer event to stderr.
package main

import (
	"context"
	"fmt"
	"os"

	hookrpc "pomodoro/internal/modules/hook/adapter/out/rpc"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

type server struct {
	logger hclog.Logger
}

func (s *server) GetMetadata(_ context.Context, _ *hookrpc.Empty) (*hookrpc.Metadata, error) {
	return &hookrpc.Metadata{
		Name:    "notify-log",
		Version: "1.0.0",
		Events:  []string{"session_completed", "log_failed", "progress_refreshed"},
	}, nil
}

func (s *server) Notify(_ context.Context, in *hookrpc.NotifyRequest) (*hookrpc.NotifyResponse, error) {
	switch in.Event {
	case "session_completed":
		s.logger.Info("session completed", "phase", in.Phase, "duration", in.Duration, "at", in.At)
	case "log_failed":
		s.logger.Warn("session log failed", "phase", in.Phase, "error", in.Error, "at", in.At)
	case "progress_refreshed":
		s.logger.Info("progress refreshed", "count", in.Count, "minutes", in.Minutes, "at", in.At)
	default:
		return &hookrpc.NotifyResponse{Accepted: false, Message: fmt.Sprintf("unknown event %q", in.Event)}, nil
	}
	return &hookrpc.NotifyResponse{Accepted: true}, nil
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "notify-log",
		Output:     os.Stderr,
		Level:      hclog.Info,
		JSONFormat: true,
	})
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: hookrpc.HandshakeConfig,
		Plugins:         hookrpc.HookMap(&server{logger: logger}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
