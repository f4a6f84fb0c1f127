package registry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/artpar/paramset/ports"
)

type recordingObserver struct {
	encodes []string
	decodes []string
	errs    []error
}

func (o *recordingObserver) ObserveEncode(format string) {
	o.encodes = append(o.encodes, format)
}

func (o *recordingObserver) ObserveDecode(format string, err error) {
	o.decodes = append(o.decodes, format)
	o.errs = append(o.errs, err)
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	r := makeBasicSchema(t, WithObserver(obs))

	r.ToCompactString()
	if _, err := r.ToJSON(); err != nil {
		t.Fatal(err)
	}
	_ = r.FromCompactString("speed=1")
	_ = r.FromJSON([]byte(`{"x": 1}`))

	if want := []string{ports.FormatCompact, ports.FormatJSON}; strings.Join(obs.encodes, ",") != strings.Join(want, ",") {
		t.Errorf("encodes = %v, want %v", obs.encodes, want)
	}
	if len(obs.decodes) != 2 {
		t.Fatalf("decodes = %v, want 2 entries", obs.decodes)
	}
	if obs.decodes[0] != ports.FormatCompact || obs.errs[0] != nil {
		t.Errorf("first decode = %s %v, want compact <nil>", obs.decodes[0], obs.errs[0])
	}
	if obs.decodes[1] != ports.FormatJSON || obs.errs[1] == nil {
		t.Errorf("second decode = %s %v, want json with error", obs.decodes[1], obs.errs[1])
	}
}

func TestLogger_DecodeRejected(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	r := makeBasicSchema(t, WithLogger(logger))

	_ = r.FromCompactString("speed=900")

	out := buf.String()
	for _, want := range []string{`"message":"decode rejected"`, `"param":"speed"`, `"format":"compact"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %s missing %s", out, want)
		}
	}
}
