package ui

import (
	"reflect"
	"testing"

	"github.com/five82/reclamos/internal/status"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"San Martín 123", 20, "San Martín 123"},
		{"San Martín 123", 10, "San Mar..."},
		{"abcdef", 3, "abc"},
		{"  padded  ", 0, "padded"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	got := truncateMiddle("/home/op/.local/state/reclamos/reclamos.log", 15)
	if len([]rune(got)) != 15 {
		t.Fatalf("truncateMiddle length = %d, want 15 (%q)", len([]rune(got)), got)
	}
	if got[:7] != "/home/o" {
		t.Fatalf("truncateMiddle lost prefix: %q", got)
	}
}

func TestWrap(t *testing.T) {
	got := wrap("poste de luz caído frente a la escuela", 12)
	want := []string{"poste de luz", "caído frente", "a la escuela"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrap = %q, want %q", got, want)
	}
	if wrap("   ", 10) != nil {
		t.Fatal("wrap of blank text should be nil")
	}
}

func TestNextStatusFilterCycles(t *testing.T) {
	var seen []status.Status
	current := status.Status("")
	for i := 0; i < 5; i++ {
		current = nextStatusFilter(current)
		seen = append(seen, current)
	}
	want := []status.Status{status.Urgent, status.Waiting, status.InProgress, status.Done, ""}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("status filter cycle = %v, want %v", seen, want)
	}
}

func TestNextOption(t *testing.T) {
	options := []string{"Norte", "Sur"}
	if got := nextOption(options, ""); got != "Norte" {
		t.Fatalf("nextOption from empty = %q", got)
	}
	if got := nextOption(options, "norte"); got != "Sur" {
		t.Fatalf("nextOption(norte) = %q", got)
	}
	if got := nextOption(options, "Sur"); got != "" {
		t.Fatalf("nextOption(Sur) = %q, want wrap to all", got)
	}
	if got := nextOption(nil, ""); got != "" {
		t.Fatalf("nextOption with no options = %q", got)
	}
}

func TestNextLogLevel(t *testing.T) {
	if got := nextLogLevel("info"); got != "warning" {
		t.Fatalf("nextLogLevel(info) = %q", got)
	}
	if got := nextLogLevel("error"); got != "debug" {
		t.Fatalf("nextLogLevel(error) = %q", got)
	}
}
