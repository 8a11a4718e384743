// Package logger builds the process-wide logr.Logger. All output goes to
// stderr as JSON; stdout is reserved for the printed selection.
package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/rowpick/pkg/settings"
)

type loggerContextKey struct{}

// Field keys stamped onto every log line.
const (
	BinaryKey    = "binary"
	CommitKey    = "commit"
	VersionKey   = "version"
	BuildTimeKey = "build_time"
	GoVersionKey = "go_version"
	TimeStampKey = "timestamp"
	MessageKey   = "message"
)

var (
	once sync.Once

	// zapRoot is kept for Sync; everything else goes through logr.
	zapRoot *zap.Logger
	root    *logr.Logger

	noop = logr.Discard()
)

// Get builds the global logger on first call and returns it afterwards.
// logLevel maps to zap levels: -1 debug, 0 info, 1 warn. Debug-level engine
// traces (focus changes, validation failures) only appear at -1.
func Get(logLevel int8) *logr.Logger {
	once.Do(func() {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.TimeKey = TimeStampKey
		encoderCfg.MessageKey = MessageKey

		buildInfo, _ := debug.ReadBuildInfo()
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(os.Stderr),
			zap.NewAtomicLevelAt(zapcore.Level(logLevel)),
		).With(
			[]zapcore.Field{
				zap.String(BinaryKey, settings.CliBinaryName),
				zap.String(CommitKey, settings.VersionInformation.Commit),
				zap.String(VersionKey, settings.VersionInformation.BuildVersion),
				zap.String(BuildTimeKey, settings.VersionInformation.BuildTime),
				zap.String(GoVersionKey, buildInfo.GoVersion),
			},
		)

		zapRoot = zap.New(core, zap.AddCaller())
		gl := zapr.NewLogger(zapRoot)
		root = &gl
	})
	if root == nil {
		return &noop
	}
	return root
}

// WithLogger attaches the logger to the context. The same logger on the same
// context is a no-op so repeated wrapping along a call chain stays cheap.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger carried by the context, the global logger
// when the context has none, and a discard logger before Get has run.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	}
	if root != nil {
		return root
	}
	return &noop
}

// Sync flushes buffered entries. Called from main via defer; errors from
// syncing a TTY or closed pipe are expected and swallowed.
func Sync() {
	if zapRoot == nil {
		return
	}
	if err := zapRoot.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
	}
}

// isIgnorableSyncError reports Sync failures that are normal for stderr.
// Windows consoles wrap ERROR_INVALID_HANDLE in *os.PathError, which does not
// compare equal to syscall.EINVAL, hence the string match.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}
