package logger

import (
	"context"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

var base *zap.Logger

func init() {
	if os.Getenv("DEBUG") == "true" {
		base, _ = zap.NewDevelopment()
	} else {
		base, _ = zap.NewProduction()
	}
	if base == nil {
		base = zap.NewNop()
	}
}

// L 返回全局日志实例。
func L() *zap.Logger {
	return base
}

// WithCtx 从请求上下文提取 request id 等字段。
func WithCtx(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return base
	}

	fields := []zap.Field{}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if v := ctx.Value(SessionKey); v != nil {
		fields = append(fields, zap.Any("session_id", v))
	}

	return base.With(fields...)
}

type ctxKey string

// SessionKey 用于在 context 中携带会话 ID。
const SessionKey ctxKey = "session_id"

// ContextWithSession 将会话 ID 写入 context，供 WithCtx 读取。
func ContextWithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionKey, sessionID)
}

// Sync 刷新缓冲日志，进程退出前调用。
func Sync() {
	_ = base.Sync()
}
