package logger

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Status is the error type used across this codebase instead of the bare
// error interface, so that an HTTP-ish status code and a request label
// travel with the message all the way back to the caller.
type Status struct {
	Status  int
	Message string
	Trace   string
	Request string
}

func (s *Status) Error() string {
	return s.Message
}

var (
	mu    sync.RWMutex
	sugar = mustSugar(zap.NewProduction())
)

func mustSugar(l *zap.Logger, err error) *zap.SugaredLogger {
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar()
}

// SetOutput retargets logging at "stderr", "stdout", or a file path.
func SetOutput(target string) {
	var cfg zap.Config
	if target == `` || target == `stderr` || target == `stdout` {
		cfg = zap.NewDevelopmentConfig()
		if target == `` {
			target = `stderr`
		}
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{target}
	cfg.ErrorOutputPaths = []string{target}
	built, err := cfg.Build()
	if err != nil {
		return
	}
	mu.Lock()
	sugar = built.Sugar()
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

type requestKeyT struct{}

// WithRequest attaches a free-form request label (a decode job id, a dataset
// name) that Error/ErrorNoErr will copy into Status.Request.
func WithRequest(ctx context.Context, request string) context.Context {
	return context.WithValue(ctx, requestKeyT{}, request)
}

func requestFrom(ctx context.Context) string {
	if ctx == nil {
		return ``
	}
	if v, ok := ctx.Value(requestKeyT{}).(string); ok {
		return v
	}
	return ``
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ``
	}
	parts := strings.Split(file, `/`)
	short := parts[len(parts)-1]
	return fmt.Sprintf("%s:%d", short, line)
}

func join(parts []any) string {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = fmt.Sprint(p)
	}
	return strings.Join(strs, ` `)
}

func Info(ctx context.Context, parts ...any) {
	current().Infow(join(parts), "request", requestFrom(ctx))
}

func Warn(ctx context.Context, parts ...any) {
	current().Warnw(join(parts), "request", requestFrom(ctx))
}

func Debug(ctx context.Context, parts ...any) {
	current().Debugw(join(parts), "request", requestFrom(ctx))
}

func Fatal(ctx context.Context, parts ...any) {
	current().Fatalw(join(parts), "request", requestFrom(ctx))
}

// Error logs err plus parts at ERROR and returns a *Status carrying them.
func Error(ctx context.Context, code int, err error, parts ...any) *Status {
	msg := join(parts)
	if err != nil {
		msg = msg + `: ` + err.Error()
	}
	status := &Status{
		Status:  code,
		Message: msg,
		Trace:   caller(3),
		Request: requestFrom(ctx),
	}
	current().Errorw(msg, "status", code, "trace", status.Trace, "request", status.Request)
	return status
}

// ErrorNoErr is Error without a wrapped error value.
func ErrorNoErr(ctx context.Context, code int, parts ...any) *Status {
	return Error(ctx, code, nil, parts...)
}

// ExecError logs a single line of stderr output from a supervised
// subprocess. It returns a non-nil *Status only when the line looks like a
// fatal report from the child process, distinguishing expected diagnostic
// chatter from a terminal failure.
func ExecError(ctx context.Context, code int, line string) *Status {
	current().Warnw(line, "request", requestFrom(ctx))
	lower := strings.ToLower(line)
	if strings.Contains(lower, `traceback`) || strings.Contains(lower, `fatal`) ||
		strings.Contains(lower, `panic`) {
		return &Status{Status: code, Message: line, Trace: caller(3), Request: requestFrom(ctx)}
	}
	return nil
}
