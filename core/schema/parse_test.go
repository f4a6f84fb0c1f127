package schema

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/artpar/paramset/core/param"
	"github.com/artpar/paramset/core/registry"
)

const deviceYAML = `
name: device
params:
  - { name: speed, type: int, default: 0, min: 0, max: 200 }
  - { name: temperature_limit, type: float, default: 60.0, min: 0, max: 100 }
  - { name: mode, type: string, default: AUTO, allowed: [AUTO, MANUAL] }
  - { name: enabled, type: bool, default: true }
  - name: network.ip_address
    type: string
    default: 192.168.1.100
    min_length: 7
    max_length: 15
`

const deviceTOML = `
name = "device"

[[params]]
name = "speed"
type = "int"
default = 0
min = 0
max = 200

[[params]]
name = "temperature_limit"
type = "float"
default = 60.0
min = 0
max = 100

[[params]]
name = "mode"
type = "string"
default = "AUTO"
allowed = ["AUTO", "MANUAL"]

[[params]]
name = "enabled"
type = "bool"
default = true

[[params]]
name = "network.ip_address"
type = "string"
default = "192.168.1.100"
min_length = 7
max_length = 15
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(deviceYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if doc.Name != "device" {
		t.Errorf("Name = %q, want %q", doc.Name, "device")
	}

	want := []string{"speed", "temperature_limit", "mode", "enabled", "network.ip_address"}
	if got := doc.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestParseTOML_MatchesYAML(t *testing.T) {
	fromYAML, err := Parse([]byte(deviceYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	fromTOML, err := ParseTOML([]byte(deviceTOML))
	if err != nil {
		t.Fatalf("ParseTOML failed: %v", err)
	}

	ry, rt := registry.New(), registry.New()
	if err := fromYAML.Define(ry); err != nil {
		t.Fatalf("Define(yaml) error = %v", err)
	}
	if err := fromTOML.Define(rt); err != nil {
		t.Fatalf("Define(toml) error = %v", err)
	}

	if got, want := rt.ToCompactString(), ry.ToCompactString(); got != want {
		t.Errorf("toml registry = %q, want %q", got, want)
	}

	// The constraints came through as well.
	if err := rt.SetText("speed", "201"); !errors.Is(err, param.ErrConstraintViolation) {
		t.Errorf("SetText(speed, 201) error = %v, want ErrConstraintViolation", err)
	}
}

func TestApply(t *testing.T) {
	doc, err := Parse([]byte(deviceYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	r := registry.New()
	if err := Apply(doc, r); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := "enabled=true;mode=AUTO;network.ip_address=192.168.1.100;speed=0;temperature_limit=60"
	if got := r.ToCompactString(); got != want {
		t.Errorf("ToCompactString() = %q, want %q", got, want)
	}

	tests := []struct {
		name string
		kind param.Kind
	}{
		{"speed", param.Integer},
		{"temperature_limit", param.FloatingPoint},
		{"mode", param.String},
		{"enabled", param.Boolean},
		{"network.ip_address", param.String},
	}
	for _, tt := range tests {
		if kind, err := r.Kind(tt.name); err != nil || kind != tt.kind {
			t.Errorf("Kind(%s) = %s, %v, want %s", tt.name, kind, err, tt.kind)
		}
	}

	if err := r.SetText("mode", "OFF"); !errors.Is(err, param.ErrConstraintViolation) {
		t.Errorf("SetText(mode, OFF) error = %v, want ErrConstraintViolation", err)
	}
	if err := r.SetText("network.ip_address", "1.1.1"); !errors.Is(err, param.ErrConstraintViolation) {
		t.Errorf("SetText(network.ip_address, 1.1.1) error = %v, want ErrConstraintViolation", err)
	}
}

func TestApply_DuplicateInRegistry(t *testing.T) {
	doc, err := Parse([]byte(deviceYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	r := registry.New()
	if _, err := r.AddInt("speed", 1, param.Range[int64]{}); err != nil {
		t.Fatal(err)
	}
	if err := Apply(doc, r); !errors.Is(err, param.ErrDuplicateName) {
		t.Errorf("Apply() error = %v, want ErrDuplicateName", err)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "valid minimal",
			yaml: `
params:
  - { name: a, type: int }
`,
			wantErr: false,
		},
		{
			name: "uint with bounds",
			yaml: `
params:
  - { name: count, type: uint, default: 3, min: 1, max: 10 }
`,
			wantErr: false,
		},
		{
			name: "invalid default is accepted",
			yaml: `
params:
  - { name: speed, type: int, default: 500, min: 0, max: 200 }
`,
			wantErr: false,
		},
		{
			name:    "no params",
			yaml:    `name: empty`,
			wantErr: true,
		},
		{
			name: "missing name",
			yaml: `
params:
  - { type: int }
`,
			wantErr: true,
		},
		{
			name: "duplicate name",
			yaml: `
params:
  - { name: a, type: int }
  - { name: a, type: string }
`,
			wantErr: true,
		},
		{
			name: "unknown type",
			yaml: `
params:
  - { name: a, type: timestamp }
`,
			wantErr: true,
		},
		{
			name: "min above max",
			yaml: `
params:
  - { name: a, type: float, min: 10, max: 1 }
`,
			wantErr: true,
		},
		{
			name: "min length above max length",
			yaml: `
params:
  - { name: a, type: string, min_length: 5, max_length: 2 }
`,
			wantErr: true,
		},
		{
			name: "fractional int default",
			yaml: `
params:
  - { name: a, type: int, default: 1.5 }
`,
			wantErr: true,
		},
		{
			name: "negative uint bound",
			yaml: `
params:
  - { name: a, type: uint, min: -1 }
`,
			wantErr: true,
		},
		{
			name: "bool with text default",
			yaml: `
params:
  - { name: a, type: bool, default: maybe }
`,
			wantErr: true,
		},
		{
			name: "string with numeric default",
			yaml: `
params:
  - { name: a, type: string, default: 12 }
`,
			wantErr: true,
		},
		{
			name: "range on string",
			yaml: `
params:
  - { name: a, type: string, min: 1 }
`,
			wantErr: true,
		},
		{
			name: "allowed on bool",
			yaml: `
params:
  - { name: a, type: bool, allowed: ["true"] }
`,
			wantErr: true,
		},
		{
			name: "unknown key",
			yaml: `
params:
  - { name: a, type: int, maximum: 3 }
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	doc := Document{Params: []Field{
		{Name: "a", Type: "nope"},
		{Name: "b", Type: "int"},
		{Name: "", Type: "int"},
	}}
	err := Validate(doc)
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("Validate() error = %v, want ErrInvalidDocument", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "params[0]") || !strings.Contains(msg, "params[2]") {
		t.Errorf("Validate() error = %q, want params[0] and params[2] reported", msg)
	}
	if strings.Contains(msg, "params[1]") {
		t.Errorf("Validate() error = %q, params[1] is valid", msg)
	}
}

func TestApply_InvalidDocumentDefinesNothing(t *testing.T) {
	doc := Document{Params: []Field{
		{Name: "a", Type: "int"},
		{Name: "b", Type: "float", Min: 2, Max: 1},
	}}
	r := registry.New()
	if err := Apply(doc, r); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("Apply() error = %v, want ErrInvalidDocument", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestParseTOML_UnknownKey(t *testing.T) {
	data := `
[[params]]
name = "a"
type = "int"
maximum = 3
`
	if _, err := ParseTOML([]byte(data)); err == nil {
		t.Error("ParseTOML() should reject unknown keys")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file string
		data string
	}{
		{"device.yaml", deviceYAML},
		{"device.yml", deviceYAML},
		{"device.toml", deviceTOML},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			doc, err := ParseFile(path)
			if err != nil {
				t.Fatalf("ParseFile(%s) error = %v", tt.file, err)
			}
			if len(doc.Params) != 5 {
				t.Errorf("Params = %d, want 5", len(doc.Params))
			}
		})
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("ParseFile(missing) should fail")
	}
}

func TestField_Pattern(t *testing.T) {
	doc := Document{Params: []Field{
		{Name: "code", Type: "string", Default: "x", Pattern: "^[A-Z]+$"},
	}}
	r := registry.New()
	if err := Apply(doc, r); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	// Patterns are carried but not enforced.
	if err := r.SetText("code", "lower"); err != nil {
		t.Errorf("SetText(code, lower) error = %v", err)
	}
	p, err := registry.Param[string](r, "code")
	if err != nil {
		t.Fatal(err)
	}
	if text, ok := p.Constraint().(param.Text); !ok || text.Pattern != "^[A-Z]+$" {
		t.Errorf("Constraint() = %#v, want Text with pattern", p.Constraint())
	}
}

func TestField_BoundsFromOtherTypes(t *testing.T) {
	doc := Document{Params: []Field{
		{Name: "f", Type: "float", Default: "2.5", Min: int64(1), Max: "1e1"},
		{Name: "u", Type: "uint", Default: float64(4), Max: 8},
		{Name: "b", Type: "bool", Default: "1"},
	}}
	r := registry.New()
	if err := Apply(doc, r); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := r.ToCompactString(); got != "b=true;f=2.5;u=4" {
		t.Errorf("ToCompactString() = %q", got)
	}
	if err := r.SetText("f", "10.5"); !errors.Is(err, param.ErrConstraintViolation) {
		t.Errorf("SetText(f, 10.5) error = %v, want ErrConstraintViolation", err)
	}
}
