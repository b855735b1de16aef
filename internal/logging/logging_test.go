package logging

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

type recorder struct {
	lines []string
}

func (r *recorder) WriteLineString(s string) { r.lines = append(r.lines, s) }
func (r *recorder) WriteLineBytes(b []byte)  { r.lines = append(r.lines, string(b)) }

func TestJSONRecordPerLine(t *testing.T) {
	rec := &recorder{}
	log := New(rec, slog.LevelInfo, FormatJSON)
	log.Info("inference", "class", 3, "score", 0.5)
	log.Debug("hidden")

	if len(rec.lines) != 1 {
		t.Fatalf("lines = %d, want 1: %q", len(rec.lines), rec.lines)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(rec.lines[0]), &m); err != nil {
		t.Fatalf("line is not JSON: %v: %q", err, rec.lines[0])
	}
	if m["msg"] != "inference" || m["class"] != float64(3) {
		t.Fatalf("record = %v", m)
	}
}

func TestTextFormat(t *testing.T) {
	rec := &recorder{}
	log := New(rec, slog.LevelDebug, FormatText)
	log.Debug("stroke", "points", 12)
	if len(rec.lines) != 1 || !strings.Contains(rec.lines[0], "points=12") {
		t.Fatalf("lines = %q", rec.lines)
	}
}

func TestLineWriterSplits(t *testing.T) {
	rec := &recorder{}
	w := &lineWriter{sink: rec}
	n, err := w.Write([]byte("a\nb\nc"))
	if err != nil || n != 5 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if strings.Join(rec.lines, "|") != "a|b|c" {
		t.Fatalf("lines = %q", rec.lines)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWriter(t *testing.T) {
	var b strings.Builder
	log := NewWriter(&b, slog.LevelWarn, FormatText)
	log.Info("skip")
	log.Warn("slow model", "ms", 40)
	if strings.Contains(b.String(), "skip") || !strings.Contains(b.String(), "ms=40") {
		t.Fatalf("output = %q", b.String())
	}
}
