package poller

import (
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	base := 5 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 5 * time.Second},
		{"negative failures", -1, 5 * time.Second},
		{"one failure", 1, 10 * time.Second},
		{"two failures", 2, 20 * time.Second},
		{"three failures capped", 3, 30 * time.Second}, // 40s capped
		{"many failures capped", 50, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, base)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, base, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	base := 2 * time.Second
	for failures := 0; failures <= 80; failures++ {
		got := calculateBackoff(failures, base)
		if got > maxBackoff || got <= 0 {
			t.Errorf("calculateBackoff(%d, %v) = %v, outside (0, %v]", failures, base, got, maxBackoff)
		}
	}
}
