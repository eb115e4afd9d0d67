package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf})

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn %d", 1)
	l.Error("error")

	out := buf.String()
	if strings.Contains(out, "debug") || strings.Contains(out, "info") {
		t.Errorf("output contains filtered messages: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn 1") || !strings.Contains(out, "[ERROR] error") {
		t.Errorf("output = %q, want warn and error lines", out)
	}
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf, Prefix: "keychord"})
	l.WithComponent("manager").WithField("id", "abc").Info("hello")

	out := buf.String()
	if !strings.Contains(out, "[INFO] keychord: hello {component=manager, id=abc}") {
		t.Errorf("output = %q", out)
	}
}

func TestLogger_WithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Config{Level: LevelDebug, Output: &buf})
	_ = parent.WithField("child", true)
	parent.Info("parent")
	if strings.Contains(buf.String(), "child") {
		t.Errorf("parent logged a child field: %q", buf.String())
	}
}

func TestLogger_DisableEnable(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf})
	l.Disable()
	l.Info("hidden")
	l.Enable()
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLogger_SetLevelAndOutput(t *testing.T) {
	var first, second bytes.Buffer
	l := New(Config{Level: LevelError, Output: &first})
	l.SetLevel(LevelDebug)
	if l.Level() != LevelDebug {
		t.Errorf("Level() = %v, want DEBUG", l.Level())
	}
	l.SetOutput(&second)
	l.Debug("moved")
	if first.Len() != 0 || !strings.Contains(second.String(), "moved") {
		t.Errorf("first = %q, second = %q", first.String(), second.String())
	}
}

func TestNull(t *testing.T) {
	l := Null()
	l.Error("nothing")
	l.WithComponent("x").Warn("nothing")
}

func TestLogger_ChildrenShareSink(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Config{Level: LevelDebug, Output: &buf})
	child := parent.WithComponent("manager")

	parent.Disable()
	child.Info("hidden")
	parent.Enable()
	parent.SetLevel(LevelError)
	child.Warn("filtered")
	child.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || strings.Contains(out, "filtered") {
		t.Errorf("child ignored the parent's settings: %q", out)
	}
	if !strings.Contains(out, "[ERROR] shown {component=manager}") {
		t.Errorf("output = %q", out)
	}
}
