// Package logger provides the application's structured logger built on
// log/slog.
//
// Handlers and services should log through WithCtx so every line carries
// the request_id set by the access-log middleware:
//
//	log := logger.WithCtx(ctx)
//	log.Info("order created", "order_uuid", o.UUID)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/foodhub/config"
)

var L *slog.Logger

var mongoSink *MongoHandler

func init() {
	L = slog.New(consoleHandler())
	slog.SetDefault(L)
}

func consoleHandler() slog.Handler {
	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "test", "testing":
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// EnableMongo tees every record into MongoDB when LOG_MONGO_URI is set.
// A connection failure is logged and the console logger stays in place.
func EnableMongo() {
	uri := config.LogMongoURI()
	if uri == "" || mongoSink != nil {
		return
	}

	h, err := NewMongoHandler(uri, config.LogMongoDatabase(), config.LogMongoCollection())
	if err != nil {
		L.Warn("mongo log sink disabled", "error", err)
		return
	}

	mongoSink = h
	L = slog.New(NewMultiHandler(consoleHandler(), h))
	slog.SetDefault(L)
	L.Info("mongo log sink enabled", "collection", config.LogMongoCollection())
}

// Close flushes the Mongo sink, if one was enabled.
func Close() {
	if mongoSink != nil {
		mongoSink.Close()
		mongoSink = nil
	}
}

// ─── Context-aware logger ─────────────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the per-request logger stored by InjectLogger, or the base
// logger when ctx carries none.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log into ctx. Called by the access-log middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─── Short-hand helpers ───────────────────────────────────────────────────────

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
