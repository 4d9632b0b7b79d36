package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware logs each request the server receives. Tool calls are
// logged at info with the tool name, or at warn when the tool reports an
// error result. Protocol traffic such as initialize and list calls is logged
// at debug.
func LoggingMiddleware(logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)

			level := slog.LevelDebug
			msg := "mcp request"
			attrs := []slog.Attr{
				slog.String("method", method),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if call, ok := req.(*sdkmcp.CallToolRequest); ok && call.Params != nil {
				level, msg = slog.LevelInfo, "tool call"
				attrs = append(attrs, slog.String("tool", call.Params.Name))
				if res, ok := result.(*sdkmcp.CallToolResult); ok && res != nil && res.IsError {
					level, msg = slog.LevelWarn, "tool call returned an error"
				}
			}
			if err != nil {
				level, msg = slog.LevelError, "mcp request failed"
				attrs = append(attrs, slog.String("error", err.Error()))
			}

			logger.LogAttrs(ctx, level, msg, attrs...)
			return result, err
		}
	}
}
