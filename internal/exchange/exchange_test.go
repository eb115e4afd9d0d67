package exchange

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/keychord/internal/command"
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/manager"
)

func sampleDocument() Document {
	off := false
	return Document{
		Version: Version,
		Keys: []KeyData{
			{ID: "Ctrl", Modifier: "native", Variants: []string{"ControlLeft", "ControlRight"}},
			{ID: "KeyA", Label: "A", Layout: &LayoutData{X: 1, Y: 2, Width: 1, Height: 1}, Meta: map[string]any{"row": "home"}},
			{ID: "KeyB", Enabled: &off},
			{ID: "Caps", Toggle: "emulated", ToggleOn: "CapsOn"},
		},
		Commands: []CommandData{
			{Name: "save", Condition: "editor", Description: "Save the file"},
			{Name: "noop"},
		},
		Shortcuts: []ShortcutData{
			{Chain: [][]string{{"Ctrl", "KeyA"}}, Command: "save"},
			{Chain: [][]string{{"CapsOn", "KeyA"}, {"KeyB"}}, Command: "noop", Condition: "x", Enabled: &off},
		},
	}
}

func loadSample(t *testing.T, doc Document, b Bindings) *manager.Manager {
	t.Helper()
	m := manager.New(manager.Options{})
	if err := Load(m, doc, b); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return m
}

func TestExportMatchesLoadedDocument(t *testing.T) {
	doc := sampleDocument()
	m := loadSample(t, doc, nil)
	if got := Export(m); !reflect.DeepEqual(got, doc) {
		t.Errorf("Export() = %+v\nwant %+v", got, doc)
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, f := range []Format{JSON, TOML, YAML} {
		t.Run(string(f), func(t *testing.T) {
			want := Export(loadSample(t, sampleDocument(), nil))

			var buf bytes.Buffer
			if err := Encode(&buf, want, f); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			doc, err := Decode(&buf, f)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got := Export(loadSample(t, doc, nil)); !reflect.DeepEqual(got, want) {
				t.Errorf("reloaded export = %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestDecodeHandWrittenTOML(t *testing.T) {
	src := `
version = 1

[[keys]]
id = "Ctrl"
modifier = "native"
variants = ["ControlLeft"]

[[keys]]
id = "KeyS"

[[commands]]
name = "save"

[[shortcuts]]
keys = "Ctrl+KeyS"
command = "save"
`
	doc, err := Unmarshal([]byte(src), TOML)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	var saved int
	m := loadSample(t, doc, Bindings{"save": func(ctx command.ExecuteContext) {
		if ctx.IsKeydown {
			saved++
		}
	}})

	m.Input(manager.Keydown("ControlLeft", "KeyS"))
	if saved != 1 {
		t.Errorf("save ran %d times, want 1", saved)
	}
	if s := m.Shortcuts(); len(s) != 1 || s[0].Chain.String() != "Ctrl+KeyS" {
		t.Errorf("shortcuts = %v", s)
	}
}

func TestImportCollectsErrors(t *testing.T) {
	doc := Document{
		Version: Version,
		Keys: []KeyData{
			{ID: "KeyA"},
			{ID: "Bad", Modifier: "sometimes"},
			{ID: ""},
		},
		Commands:  []CommandData{{Name: " "}, {Name: "ok"}},
		Shortcuts: []ShortcutData{{Command: "ok"}, {Keys: "KeyA", Command: "ok"}},
	}
	sets, errList := Import(doc, nil)
	if len(errList) != 4 {
		t.Fatalf("Import() errors = %v, want 4", errList)
	}
	if len(sets.Keys) != 1 || len(sets.Commands) != 1 || len(sets.Shortcuts) != 1 {
		t.Errorf("Import() sets = %d keys, %d commands, %d shortcuts", len(sets.Keys), len(sets.Commands), len(sets.Shortcuts))
	}
	if !errors.Is(errList[0], errs.ErrInvalidKey) {
		t.Errorf("errList[0] = %v, want INVALID_KEY", errList[0])
	}
	if !errors.Is(errList[3], errs.ErrInvalidValue) {
		t.Errorf("errList[3] = %v, want INVALID_VALUE", errList[3])
	}
}

func TestLoadReportsManagerErrors(t *testing.T) {
	doc := Document{
		Keys:      []KeyData{{ID: "KeyA"}},
		Shortcuts: []ShortcutData{{Keys: "KeyA", Command: "missing"}, {Keys: "KeyZ"}},
	}
	m := manager.New(manager.Options{})
	err := Load(m, doc, nil)
	if !errors.Is(err, errs.ErrUnknownCommand) || !errors.Is(err, errs.ErrUnknownKey) {
		t.Errorf("Load() error = %v, want UNKNOWN_COMMAND and UNKNOWN_KEY", err)
	}
	if len(m.Keys()) != 1 || len(m.Shortcuts()) != 0 {
		t.Errorf("loaded %d keys, %d shortcuts", len(m.Keys()), len(m.Shortcuts()))
	}
}

func TestBindingsApply(t *testing.T) {
	m := loadSample(t, sampleDocument(), nil)
	ran := false
	missing, err := Bindings{
		"save":  func(command.ExecuteContext) { ran = true },
		"ghost": func(command.ExecuteContext) {},
	}.Apply(m)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(missing) != 1 || missing[0] != "ghost" {
		t.Errorf("Apply() missing = %v, want [ghost]", missing)
	}
	m.Command("save").Run(command.ExecuteContext{})
	if !ran {
		t.Error("bound function not attached")
	}
}

func TestFormats(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"keys.json", JSON, true},
		{"keys.TOML", TOML, true},
		{"dir/keys.yml", YAML, true},
		{"keys.yaml", YAML, true},
		{"keys.ini", "", false},
		{"keys", "", false},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
		if err != nil && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("FormatFromPath(%q) error = %v, want ErrUnknownFormat", tt.path, err)
		}
	}
	if err := Encode(&bytes.Buffer{}, Document{}, "xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Encode(xml) error = %v", err)
	}
	if _, err := Unmarshal([]byte("{"), JSON); err == nil || !strings.Contains(err.Error(), "decoding json") {
		t.Errorf("Unmarshal(bad json) error = %v", err)
	}
}
