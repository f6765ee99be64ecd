package core

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type loggerKeyType int

const loggerKey loggerKeyType = iota

var (
	baseLogger *zap.SugaredLogger
	loggerOnce sync.Once
)

func getBaseLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		logger, err := cfg.Build()
		if err != nil {
			logger = zap.NewNop()
		}
		baseLogger = logger.Sugar()
	})
	return baseLogger
}

// WithDefaultLogger attaches a request-scoped logger to the context
func WithDefaultLogger(parent context.Context, reqId string) context.Context {
	return context.WithValue(parent, loggerKey, getBaseLogger().With("request_id", reqId))
}

func fromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok {
			return logger
		}
	}
	return getBaseLogger()
}

func Infof(ctx context.Context, tpl string, args ...any) {
	fromContext(ctx).Infof(tpl, args...)
}

func Errorf(ctx context.Context, tpl string, args ...any) {
	fromContext(ctx).Errorf(tpl, args...)
}

func Debugf(ctx context.Context, tpl string, args ...any) {
	fromContext(ctx).Debugf(tpl, args...)
}
