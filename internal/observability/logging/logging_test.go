package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, Options{Level: "info", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}

	l.Info("http_request", "method", "GET", "status", 200)
	l.Debug("dropped")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v; line=%s", err, lines[0])
	}
	if entry["msg"] != "http_request" || entry["method"] != "GET" {
		t.Fatalf("entry=%v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("expected timestamp in entry=%v", entry)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := map[string]Options{
		"bad level":  {Level: "loud"},
		"bad format": {Format: "xml"},
	}

	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := New(&bytes.Buffer{}, opts); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, Options{Format: "logfmt"})
	if err != nil {
		t.Fatal(err)
	}

	StdLogger(l).Printf("http: TLS handshake error")

	out := buf.String()
	if !strings.Contains(out, "level=error") || !strings.Contains(out, "TLS handshake error") {
		t.Fatalf("out=%q", out)
	}
}
