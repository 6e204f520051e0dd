package status

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"URGENTE", Urgent, true},
		{" espera ", Waiting, true},
		{"en proceso", InProgress, true},
		{"en-proceso", InProgress, true},
		{"listo", Done, true},
		{"cerrado", Status("CERRADO"), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("Parse(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLabelFallsBackToRawValue(t *testing.T) {
	if got := InProgress.Label(); got != "En proceso" {
		t.Fatalf("Label = %q, want En proceso", got)
	}
	if got := Status("OTRO").Label(); got != "OTRO" {
		t.Fatalf("Label unknown = %q, want OTRO", got)
	}
}

func TestNextWraps(t *testing.T) {
	if Done.Next() != Urgent {
		t.Fatalf("Done.Next() = %q, want %q", Done.Next(), Urgent)
	}
	if Status("OTRO").Next() != Urgent {
		t.Fatalf("unknown.Next() = %q, want %q", Status("OTRO").Next(), Urgent)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	got := All()
	got[0] = "X"
	if All()[0] != Urgent {
		t.Fatalf("All() should return a copy")
	}
}
