// Package logging builds the zap logger. Output goes to a line sink instead
// of stdout so the terminal UI owns the screen; before the UI starts, the
// sink buffers, and afterwards it forwards into the log panel.
package logging

import (
	"bytes"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink receives one formatted log line at a time, without the trailing
// newline.
type Sink func(line string)

type sinkSyncer struct {
	sink Sink
}

func (s sinkSyncer) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		s.sink(string(line))
	}
	return len(p), nil
}

func (s sinkSyncer) Sync() error { return nil }

// New builds a console-encoded logger at the given level, writing to sink.
func New(level string, sink Sink) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		sinkSyncer{sink: sink},
		ParseLevel(level),
	)
	return zap.New(core)
}

// ParseLevel maps a flag value onto a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug", "dbg":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error", "err":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SwitchSink is a Sink that buffers lines until a forwarding func is
// attached, then replays the buffer and forwards everything after. It lets
// the logger come up before the UI does.
type SwitchSink struct {
	mu      sync.Mutex
	buffer  []string
	forward Sink
}

func (s *SwitchSink) Write(line string) {
	s.mu.Lock()
	fwd := s.forward
	if fwd == nil {
		s.buffer = append(s.buffer, line)
	}
	s.mu.Unlock()
	if fwd != nil {
		fwd(line)
	}
}

// Attach installs the forwarding func and returns the buffered backlog.
func (s *SwitchSink) Attach(fwd Sink) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forward = fwd
	backlog := s.buffer
	s.buffer = nil
	return backlog
}
