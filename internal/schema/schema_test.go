package schema

import (
	"testing"
)

func compileSet(t *testing.T) *Set {
	t.Helper()
	s, err := Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return s
}

func violationFor(violations []Violation, field string) (Violation, bool) {
	for _, v := range violations {
		if v.Field == field {
			return v, true
		}
	}
	return Violation{}, false
}

func TestCompile_DeclaresAllTools(t *testing.T) {
	s := compileSet(t)

	expected := []string{
		"findParks", "getParkDetails", "getAlerts", "getVisitorCenters",
		"getCampgrounds", "getEvents", "geocodeLocation", "reverseGeocode",
		"getWeather", "getAirQuality", "getParkContext",
	}
	if got := len(s.Names()); got != len(expected) {
		t.Fatalf("expected %d tool schemas, got %d: %v", len(expected), got, s.Names())
	}
	for _, name := range expected {
		if !s.Has(name) {
			t.Errorf("missing schema for tool %q", name)
		}
	}
	if s.Has("getTrailConditions") {
		t.Error("Has should be false for an undeclared tool")
	}
}

func TestValidate_AcceptsValidArguments(t *testing.T) {
	s := compileSet(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"findParks all filters", "findParks", map[string]any{
			"state_code": "CA", "activity_id": "hiking", "query": "waterfall",
			"limit": 5, "start": 0,
		}},
		{"findParks empty", "findParks", map[string]any{}},
		{"findParks nil args", "findParks", nil},
		{"findParks float integer", "findParks", map[string]any{"limit": float64(10)}},
		{"getParkDetails", "getParkDetails", map[string]any{"park_code": "yose"}},
		{"getAlerts empty", "getAlerts", map[string]any{}},
		{"getAlerts filtered", "getAlerts", map[string]any{"park_code": "grca", "query": "closure", "limit": 50, "start": 20}},
		{"getEvents dates", "getEvents", map[string]any{"date_start": "2026-08-01", "date_end": "2026-08-31"}},
		{"geocodeLocation", "geocodeLocation", map[string]any{"query": "Yosemite Valley", "limit": 10}},
		{"reverseGeocode", "reverseGeocode", map[string]any{"latitude": 37.8651, "longitude": -119.5383}},
		{"getWeather units", "getWeather", map[string]any{"latitude": -90, "longitude": 180, "units": "imperial", "language": "pt-br"}},
		{"getAirQuality", "getAirQuality", map[string]any{"latitude": 0, "longitude": 0}},
		{"getParkContext", "getParkContext", map[string]any{"park_code": "YELL", "units": "metric"}},
		{"unknown keys ignored", "findParks", map[string]any{"state_code": "WA", "stateCode": "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if violations := s.Validate(tt.tool, tt.args); len(violations) != 0 {
				t.Errorf("expected no violations, got %v", violations)
			}
		})
	}
}

func TestValidate_RejectsBadArguments(t *testing.T) {
	s := compileSet(t)

	tests := []struct {
		name       string
		tool       string
		args       map[string]any
		field      string
		constraint string
	}{
		{"limit zero rejected not clamped", "findParks", map[string]any{"limit": 0}, "limit", "minimum"},
		{"limit over bound rejected not clamped", "findParks", map[string]any{"limit": 51}, "limit", "maximum"},
		{"limit wrong type", "getAlerts", map[string]any{"limit": "ten"}, "limit", "type"},
		{"limit fractional", "getAlerts", map[string]any{"limit": 10.5}, "limit", "type"},
		{"start negative", "getCampgrounds", map[string]any{"start": -1}, "start", "minimum"},
		{"state code too long", "findParks", map[string]any{"state_code": "CAL"}, "state_code", "pattern"},
		{"state code digits", "findParks", map[string]any{"state_code": "C1"}, "state_code", "pattern"},
		{"park code wrong length", "getParkDetails", map[string]any{"park_code": "yosemite"}, "park_code", "pattern"},
		{"park code missing", "getParkDetails", map[string]any{}, "park_code", "required"},
		{"event date not zero padded", "getEvents", map[string]any{"date_start": "2025-1-01"}, "date_start", "pattern"},
		{"empty query", "geocodeLocation", map[string]any{"query": ""}, "query", "minLength"},
		{"geocode limit beyond ten", "geocodeLocation", map[string]any{"query": "Denali", "limit": 11}, "limit", "maximum"},
		{"latitude out of range", "getWeather", map[string]any{"latitude": 91, "longitude": 0}, "latitude", "maximum"},
		{"longitude out of range", "getWeather", map[string]any{"latitude": 0, "longitude": -180.5}, "longitude", "minimum"},
		{"units outside pattern", "getWeather", map[string]any{"latitude": 0, "longitude": 0, "units": "kelvin"}, "units", "pattern"},
		{"language too short", "getWeather", map[string]any{"latitude": 0, "longitude": 0, "language": "e"}, "language", "minLength"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := s.Validate(tt.tool, tt.args)
			if len(violations) == 0 {
				t.Fatal("expected violations, got none")
			}
			v, ok := violationFor(violations, tt.field)
			if !ok {
				t.Fatalf("no violation for field %q in %v", tt.field, violations)
			}
			if v.Constraint != tt.constraint {
				t.Errorf("expected constraint %q, got %q", tt.constraint, v.Constraint)
			}
			if v.Message == "" {
				t.Error("violation message should not be empty")
			}
		})
	}
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	s := compileSet(t)

	violations := s.Validate("findParks", map[string]any{
		"state_code": "California",
		"limit":      0,
		"start":      -5,
	})
	if len(violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(violations), violations)
	}
	for _, field := range []string{"state_code", "limit", "start"} {
		if _, ok := violationFor(violations, field); !ok {
			t.Errorf("missing violation for %q", field)
		}
	}
}

func TestValidate_MissingRequiredReportedPerField(t *testing.T) {
	s := compileSet(t)

	violations := s.Validate("reverseGeocode", map[string]any{})
	if len(violations) != 2 {
		t.Fatalf("expected one violation per missing field, got %d: %v", len(violations), violations)
	}
	for _, field := range []string{"latitude", "longitude"} {
		v, ok := violationFor(violations, field)
		if !ok {
			t.Fatalf("missing violation for %q", field)
		}
		if v.Constraint != "required" {
			t.Errorf("expected required constraint for %q, got %q", field, v.Constraint)
		}
	}
}

func TestValidate_UnknownToolHasNoSchema(t *testing.T) {
	s := compileSet(t)

	if violations := s.Validate("getTrailConditions", map[string]any{"anything": true}); violations != nil {
		t.Errorf("expected nil for undeclared tool, got %v", violations)
	}
}

func TestMustCompile_DoesNotPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustCompile panicked: %v", r)
		}
	}()
	if s := MustCompile(); s == nil {
		t.Fatal("MustCompile returned nil")
	}
}
