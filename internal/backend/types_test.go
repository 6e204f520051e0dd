package backend

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/five82/reclamos/internal/status"
)

func TestComplaintDecodesBackendPayload(t *testing.T) {
	raw := `{
		"id": "R-10",
		"citizenName": "Juan Pérez",
		"address": "San Martín 123",
		"sector": "Norte",
		"taskType": "Bache",
		"status": "EN_PROCESO",
		"latitude": -34.6,
		"createdAt": "2025-03-01T10:11:12.345Z",
		"assignedDriver": {"id": "D-1", "firstName": "Rosa", "email": "rosa@muni.gov"},
		"observations": [{"id": "O-1", "observation": "pendiente", "createdAt": "2025-03-01T11:00:00Z", "userId": "U-1"}]
	}`
	var c Complaint
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c.Status != status.InProgress {
		t.Fatalf("Status = %q, want EN_PROCESO", c.Status)
	}
	if c.Latitude == nil || *c.Latitude != -34.6 || c.Longitude != nil {
		t.Fatalf("coordinates = %v/%v", c.Latitude, c.Longitude)
	}
	if c.AssignedDriver == nil || c.AssignedDriver.FirstName != "Rosa" {
		t.Fatalf("AssignedDriver = %#v", c.AssignedDriver)
	}
	if len(c.Observations) != 1 {
		t.Fatalf("Observations = %#v", c.Observations)
	}
	want := time.Date(2025, 3, 1, 10, 11, 12, 345000000, time.UTC)
	if !c.ParsedCreatedAt().Equal(want) {
		t.Fatalf("ParsedCreatedAt = %v, want %v", c.ParsedCreatedAt(), want)
	}
	if !c.ParsedUpdatedAt().IsZero() {
		t.Fatalf("ParsedUpdatedAt should be zero for a missing value")
	}
	if c.Label() != "San Martín 123" {
		t.Fatalf("Label = %q", c.Label())
	}
}

func TestComplaintLabelFallsBackToID(t *testing.T) {
	if got := (Complaint{ID: "R-3", Address: "  "}).Label(); got != "R-3" {
		t.Fatalf("Label = %q, want R-3", got)
	}
}

func TestParseTimeLayouts(t *testing.T) {
	if got := parseTime("2025-12-13T10:11:12Z"); got.IsZero() {
		t.Fatalf("RFC3339 not parsed")
	}
	local := parseTime("2025-12-13 10:11:12")
	if local.IsZero() || local.Hour() != 10 {
		t.Fatalf("local layout = %v", local)
	}
	if !parseTime("yesterday").IsZero() {
		t.Fatalf("garbage should parse to zero time")
	}
}

func TestSessionUserFullName(t *testing.T) {
	if got := (SessionUser{FirstName: " Ana ", LastName: "Gómez"}).FullName(); got != "Ana Gómez" {
		t.Fatalf("FullName = %q", got)
	}
	if got := (SessionUser{LastName: "Gómez"}).FullName(); got != "Gómez" {
		t.Fatalf("FullName = %q", got)
	}
}

func TestUserIsDriver(t *testing.T) {
	for role, want := range map[string]bool{"DRIVER": true, "chofer": true, "ADMIN": false, "": false} {
		if got := (User{Role: role}).IsDriver(); got != want {
			t.Errorf("IsDriver(%q) = %v, want %v", role, got, want)
		}
	}
}
