package common

import (
	"testing"
)

func TestParseStringFloat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		isNil bool
	}{
		{"valid latitude", "44.59824417", 44.59824417, false},
		{"negative longitude", "-110.5471695", -110.5471695, false},
		{"integer fee", "35", 35, false},
		{"fee with decimals", "20.00", 20, false},
		{"empty string", "", 0, true},
		{"whitespace only", "   ", 0, true},
		{"non-numeric", "unknown", 0, true},
		{"padded value", " 12.5 ", 12.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStringFloat(tt.input)
			if tt.isNil {
				if got != nil {
					t.Errorf("ParseStringFloat(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseStringFloat(%q) = nil, want %v", tt.input, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ParseStringFloat(%q) = %v, want %v", tt.input, *got, tt.want)
			}
		})
	}
}

func TestParseStringInt(t *testing.T) {
	if got := ParseStringInt("497"); got != 497 {
		t.Errorf("Expected 497, got %d", got)
	}
	if got := ParseStringInt(""); got != 0 {
		t.Errorf("Expected 0 for empty string, got %d", got)
	}
	if got := ParseStringInt("abc"); got != 0 {
		t.Errorf("Expected 0 for non-numeric, got %d", got)
	}
	if got := ParseStringInt(" 10 "); got != 10 {
		t.Errorf("Expected 10 for padded value, got %d", got)
	}
}

func TestSplitCSV(t *testing.T) {
	states := SplitCSV("ID,MT,WY")
	if len(states) != 3 {
		t.Fatalf("Expected 3 states, got %d", len(states))
	}
	if states[0] != "ID" || states[1] != "MT" || states[2] != "WY" {
		t.Errorf("Unexpected split result: %v", states)
	}

	single := SplitCSV("CA")
	if len(single) != 1 || single[0] != "CA" {
		t.Errorf("Expected [CA], got %v", single)
	}

	empty := SplitCSV("")
	if empty == nil {
		t.Fatal("Expected non-nil slice for empty input")
	}
	if len(empty) != 0 {
		t.Errorf("Expected empty slice, got %v", empty)
	}

	padded := SplitCSV(" NC , TN ")
	if len(padded) != 2 || padded[0] != "NC" || padded[1] != "TN" {
		t.Errorf("Expected trimmed [NC TN], got %v", padded)
	}
}
