package profiler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func TestTickLogsAfterInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(
		WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
		WithUpdateInterval(0),
	)

	if !p.Tick() {
		t.Fatal("Tick() = false with a zero interval")
	}

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log record is not JSON: %v (%q)", err, buf.String())
	}
	for _, key := range []string{"fps", "heap_mb", "alloc_rate_mb_s", "gc", "sys_mb"} {
		if _, ok := rec[key]; !ok {
			t.Errorf("record missing %q: %v", key, rec)
		}
	}
	if fps, _ := rec["fps"].(float64); fps <= 0 {
		t.Errorf("fps = %v, want > 0", rec["fps"])
	}
}

func TestTickWaitsForInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(
		WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
		WithUpdateInterval(time.Hour),
	)
	for range 10 {
		if p.Tick() {
			t.Fatal("Tick() logged before the interval elapsed")
		}
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
	if p.frameCount != 10 {
		t.Errorf("frameCount = %d, want 10", p.frameCount)
	}
}
