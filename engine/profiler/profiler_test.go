package profiler

import (
	"testing"
	"time"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	p := NewProfilerWithInterval(time.Hour)
	for i := 0; i < 10; i++ {
		if p.Tick() {
			t.Fatal("Tick reported before the interval elapsed")
		}
	}

	p.lastTime = time.Now().Add(-2 * time.Hour)
	if !p.Tick() {
		t.Fatal("Tick did not report after the interval elapsed")
	}
	if p.frameCount != 0 {
		t.Errorf("frameCount = %d after report, want 0", p.frameCount)
	}
}

func TestNewProfilerWithIntervalDefault(t *testing.T) {
	if p := NewProfilerWithInterval(0); p.updateInterval != time.Second {
		t.Errorf("updateInterval = %v, want 1s", p.updateInterval)
	}
}
