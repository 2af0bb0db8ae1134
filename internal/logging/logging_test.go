package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWritesLinesToSink(t *testing.T) {
	var lines []string
	log := New("debug", func(line string) { lines = append(lines, line) })

	log.Info("fixture loaded")
	log.Debug("detail")

	if len(lines) != 2 {
		t.Fatalf("sink got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "INFO") || !strings.Contains(lines[0], "fixture loaded") {
		t.Errorf("line = %q", lines[0])
	}
	if strings.HasSuffix(lines[0], "\n") {
		t.Error("sink lines should not carry the trailing newline")
	}
}

func TestLevelFiltering(t *testing.T) {
	var lines []string
	log := New("warn", func(line string) { lines = append(lines, line) })

	log.Info("dropped")
	log.Warn("kept")

	if len(lines) != 1 || !strings.Contains(lines[0], "kept") {
		t.Errorf("lines = %v", lines)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":    zapcore.DebugLevel,
		"dbg":      zapcore.DebugLevel,
		"info":     zapcore.InfoLevel,
		"warn":     zapcore.WarnLevel,
		"error":    zapcore.ErrorLevel,
		"nonsense": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSwitchSinkBuffersThenForwards(t *testing.T) {
	s := &SwitchSink{}
	s.Write("one")
	s.Write("two")

	var forwarded []string
	backlog := s.Attach(func(line string) { forwarded = append(forwarded, line) })

	if len(backlog) != 2 || backlog[0] != "one" {
		t.Fatalf("backlog = %v", backlog)
	}

	s.Write("three")
	if len(forwarded) != 1 || forwarded[0] != "three" {
		t.Errorf("forwarded = %v", forwarded)
	}
}
