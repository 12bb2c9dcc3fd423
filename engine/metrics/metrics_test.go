package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCameraGauges(t *testing.T) {
	SetCameraState(7, 32.5)
	if got := testutil.ToFloat64(cameraLevel); got != 7 {
		t.Errorf("camera level = %v, want 7", got)
	}
	if got := testutil.ToFloat64(cameraFovDegrees); got != 32.5 {
		t.Errorf("camera fov = %v, want 32.5", got)
	}
}

func TestAnimationCounter(t *testing.T) {
	before := testutil.ToFloat64(animationsTotal.WithLabelValues(AnimationDropped))
	AnimationEvent(AnimationDropped)
	AnimationEvent(AnimationDropped)
	after := testutil.ToFloat64(animationsTotal.WithLabelValues(AnimationDropped))
	if after-before != 2 {
		t.Errorf("dropped animations grew by %v, want 2", after-before)
	}
}

func TestTileSearchAndHandler(t *testing.T) {
	before := testutil.ToFloat64(tileChecksTotal)
	IncTileChecks()
	if got := testutil.ToFloat64(tileChecksTotal) - before; got != 1 {
		t.Errorf("tile checks grew by %v, want 1", got)
	}

	ObserveTileSearch(3, 12, 2*time.Millisecond)
	if got := testutil.ToFloat64(visibleTiles.WithLabelValues("3")); got != 12 {
		t.Errorf("visible tiles = %v, want 12", got)
	}

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "oxyglobe_tile_search_duration_seconds") {
		t.Error("search histogram missing from exposition")
	}
}
