// Package log holds the shared go-kit logger.
package log

import (
	"fmt"
	"io"
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger is a shared go-kit logger. It discards everything until InitLogger
// is called.
var Logger = kitlog.NewNopLogger()

// InitLogger initialises the global logger writing to stderr and returns it.
// stdout is left alone because the MCP server speaks its protocol there.
func InitLogger(format, lvl string) (kitlog.Logger, error) {
	logger, err := New(os.Stderr, format, lvl)
	if err != nil {
		return nil, err
	}
	Logger = logger
	return logger, nil
}

// New builds a logger writing logfmt or JSON lines to w, filtered at lvl.
func New(w io.Writer, format, lvl string) (kitlog.Logger, error) {
	filter, err := levelFilter(lvl)
	if err != nil {
		return nil, err
	}

	writer := kitlog.NewSyncWriter(w)
	var logger kitlog.Logger
	switch format {
	case "", "logfmt":
		logger = kitlog.NewLogfmtLogger(writer)
	case "json":
		logger = kitlog.NewJSONLogger(writer)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC, "caller", kitlog.DefaultCaller)

	// Must put the level filter last for efficiency.
	return level.NewFilter(logger, filter), nil
}

func levelFilter(lvl string) (level.Option, error) {
	switch lvl {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}
}
