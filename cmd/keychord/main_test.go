package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const editorTOML = `
[[keys]]
id = "Ctrl"
modifier = "emulated"
variants = ["ControlLeft", "ControlRight"]

[[keys]]
id = "KeyS"

[[keys]]
id = "KeyQ"

[[commands]]
name = "save"

[[commands]]
name = "quit"

[[shortcuts]]
keys = "Ctrl+KeyS"
command = "save"

[[shortcuts]]
keys = "Ctrl+KeyQ"
command = "quit"
`

const conflictTOML = editorTOML + `
[[commands]]
name = "store"

[[shortcuts]]
keys = "Ctrl+KeyS"
command = "store"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestRunValidate(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
		want    string
	}{
		{
			name:    "valid toml",
			file:    "keys.toml",
			content: editorTOML,
			want:    "3 keys, 2 commands, 2 shortcuts loaded, 0 problems",
		},
		{
			name:    "conflict",
			file:    "keys.toml",
			content: conflictTOML,
			wantErr: errInvalid,
			want:    "1 problems",
		},
		{
			name:    "unknown key",
			file:    "keys.toml",
			content: editorTOML + "\n[[shortcuts]]\nkeys = \"Ctrl+KeyX\"\n",
			wantErr: errInvalid,
			want:    "error: ",
		},
		{
			name:    "json document",
			file:    "keys.json",
			content: `{"version": 1, "keys": [{"id": "KeyA"}], "commands": [{"name": "a"}], "shortcuts": [{"keys": "KeyA", "command": "a"}]}`,
			want:    "1 keys, 1 commands, 1 shortcuts loaded, 0 problems",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := runValidate(&stdout, &stderr, writeFile(t, tt.file, tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("runValidate() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", stdout.String(), tt.want)
			}
		})
	}
}

func TestRunValidateMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := runValidate(&stdout, &stderr, filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Error("runValidate(missing) error = nil, want error")
	}
}

func TestRunConflicts(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := runConflicts(&stdout, &stderr, writeFile(t, "keys.toml", conflictTOML), nil)
	if !errors.Is(err, errInvalid) {
		t.Errorf("runConflicts() error = %v, want errInvalid", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "<>") || !strings.Contains(out, "1 conflicts") {
		t.Errorf("output = %q, want one pair", out)
	}

	stdout.Reset()
	if err := runConflicts(&stdout, &stderr, writeFile(t, "keys.toml", editorTOML), nil); err != nil {
		t.Errorf("runConflicts(clean) error = %v", err)
	}
	if !strings.Contains(stdout.String(), "0 conflicts") {
		t.Errorf("output = %q, want 0 conflicts", stdout.String())
	}
}

func TestParseContext(t *testing.T) {
	vars := parseContext([]string{"editor", "mode = insert"})
	if !vars.Flags["editor"] {
		t.Errorf("Flags = %v, want editor set", vars.Flags)
	}
	if got := vars.Values["mode"]; got != "insert" {
		t.Errorf("Values[mode] = %v, want insert", got)
	}
}

func TestRunFire(t *testing.T) {
	var stdout, stderr bytes.Buffer
	path := writeFile(t, "keys.toml", editorTOML)
	if err := runFire(&stdout, &stderr, path, "Ctrl+ KeyS Ctrl-", nil, nil); err != nil {
		t.Fatalf("runFire() error = %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"keydown save", "keyup save", "chain: []"} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %q, want it to contain %q", out, want)
		}
	}
	if strings.Contains(out, "quit") {
		t.Errorf("output = %q, quit should not run", out)
	}
}

func TestRunFireInvalidScript(t *testing.T) {
	var stdout, stderr bytes.Buffer
	path := writeFile(t, "keys.toml", editorTOML)
	if err := runFire(&stdout, &stderr, path, "wheelUp+", nil, nil); err == nil {
		t.Error("runFire(wheelUp+) error = nil, want error")
	}
	if strings.Contains(stdout.String(), "keydown") {
		t.Errorf("output = %q, want nothing sent", stdout.String())
	}
}

func TestRunExport(t *testing.T) {
	path := writeFile(t, "keys.toml", editorTOML)
	for _, format := range []string{"json", "toml", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := runExport(&stdout, &stderr, path, format); err != nil {
				t.Fatalf("runExport() error = %v", err)
			}
			if !strings.Contains(stdout.String(), "ControlLeft") {
				t.Errorf("output = %q, want the Ctrl variants", stdout.String())
			}

			// The export loads back with the same counts.
			out := writeFile(t, "keys."+format, stdout.String())
			var report bytes.Buffer
			if err := runValidate(&report, &stderr, out); err != nil {
				t.Errorf("runValidate(export) error = %v, output = %q", err, report.String())
			}
			if !strings.Contains(report.String(), "3 keys, 2 commands, 2 shortcuts") {
				t.Errorf("report = %q", report.String())
			}
		})
	}

	var stdout, stderr bytes.Buffer
	if err := runExport(&stdout, &stderr, path, "xml"); err == nil {
		t.Error("runExport(xml) error = nil, want error")
	}
}
