package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/artpar/paramset/adapters/metrics"
	"github.com/artpar/paramset/ports"
)

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	m.ObserveEncode(ports.FormatCompact)

	srv := httptest.NewServer(metrics.Handler(reg))
	defer srv.Close()

	tests := []struct {
		path     string
		wantCode int
		contains string
	}{
		{"/metrics", http.StatusOK, `paramset_encode_total{format="compact"} 1`},
		{"/healthz", http.StatusOK, "ok"},
		{"/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatalf("GET %s error: %v", tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantCode {
				t.Errorf("GET %s status = %d, want %d", tt.path, resp.StatusCode, tt.wantCode)
			}
			body, _ := io.ReadAll(resp.Body)
			if tt.contains != "" && !strings.Contains(string(body), tt.contains) {
				t.Errorf("GET %s body missing %q:\n%s", tt.path, tt.contains, body)
			}
		})
	}
}
