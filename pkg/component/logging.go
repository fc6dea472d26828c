package component

import (
	"log/slog"
	"net"
	"os"
)

// SetupLogger configures the default slog logger for a component run: a text
// handler on stderr for local runs, or a JSON handler streamed to the host's
// log receiver when KBC_LOGGER_ADDR/KBC_LOGGER_PORT are set. When the
// receiver is unreachable the logger falls back to stderr.
func SetupLogger(env EnvironmentVariables, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var logger *slog.Logger
	if env.LoggerAddr != "" && env.LoggerPort != "" {
		conn, err := net.Dial("tcp", net.JoinHostPort(env.LoggerAddr, env.LoggerPort))
		if err == nil {
			logger = slog.New(slog.NewJSONHandler(conn, opts))
		}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	slog.SetDefault(logger)
	return logger
}

// DebugEnabled reports whether the configuration requests verbose logging
// via the debug parameter.
func DebugEnabled(cfg *Configuration) bool {
	if cfg == nil {
		return false
	}
	debug, _ := cfg.Parameters["debug"].(bool)
	return debug
}
