package config

import (
	"fmt"
	"io"
	"strings"

	"webservers/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// LogLevel reads env variable name as one of debug, info, warn, error. Default info.
func LogLevel(name string) (string, error) {
	v := strings.ToLower(String(name, "info"))
	switch v {
	case "debug", "info", "warn", "error":
		return v, nil
	default:
		return "", service.NewConfigError(fmt.Sprintf("%s must be one of debug, info, warn, error", name), nil)
	}
}

// NewLogger creates the logfmt logger of a binary with UTC timestamps and callers, dropping records
// below lvl. Unknown levels keep info and above.
func NewLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, levelOption(lvl))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return logger
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
