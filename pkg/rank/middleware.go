package rank

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/generanker/pkg/dataset"
)

// Func is a ranking method.
type Func func(ctx context.Context, d *dataset.Dual, args Args) (*Result, error)

// Middleware wraps a ranking method with extra behaviour.
type Middleware func(Func) Func

// Chain applies mws to f. The first middleware is the outermost.
func Chain(f Func, mws ...Middleware) Func {
	for i := len(mws) - 1; i >= 0; i-- {
		f = mws[i](f)
	}
	return f
}

// Logging logs the method's duration and outcome, warns when it runs longer
// than slow, and turns a panic into an error.
func Logging(logger *zap.Logger, method string, slow time.Duration) Middleware {
	return func(next Func) Func {
		return func(ctx context.Context, d *dataset.Dual, args Args) (res *Result, err error) {
			start := time.Now()

			defer func() {
				if p := recover(); p != nil {
					logger.Error("Method panicked",
						zap.String("method", method),
						zap.Any("panic", p),
						zap.String("stack", string(debug.Stack())),
					)
					res, err = nil, fmt.Errorf("method %s panicked: %v", method, p)
				}

				duration := time.Since(start)
				fields := []zap.Field{
					zap.String("method", method),
					zap.Duration("duration", duration),
					zap.Object("args", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
						for k, v := range args {
							enc.AddString(k, v)
						}
						return nil
					})),
				}
				if err != nil {
					logger.Debug("Method failed", append(fields, zap.Error(err))...)
				} else {
					logger.Info("Method completed", fields...)
				}

				if slow > 0 && duration > slow {
					logger.Warn("Slow method",
						zap.String("method", method),
						zap.Duration("duration", duration),
					)
				}
			}()

			logger.Debug("Method started", zap.String("method", method))
			return next(ctx, d, args)
		}
	}
}
