package coerce

import (
	"testing"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		def      float64
		expected float64
	}{
		{"float passes through", 85.5, 0, 85.5},
		{"int passes through", 25, 0, 25},
		{"percent string", "85%", 0, 85},
		{"currency string", "CHF 120.50", 0, 120.50},
		{"plain numeric string", "3500", 0, 3500},
		{"spelled out hundred", "cent pour cent", 0, 100},
		{"spelled out fifty", "fifty percent", 0, 50},
		{"garbage falls back to default", "n/a", 7, 7},
		{"nil falls back to default", nil, 7, 7},
		{"bool falls back to default", true, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Float(tt.value, tt.def); got != tt.expected {
				t.Errorf("Float(%v) = %v, expected %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestFloatPtr(t *testing.T) {
	if got := FloatPtr("85%"); got == nil || *got != 85 {
		t.Errorf("Expected 85, got %v", got)
	}
	if got := FloatPtr(nil); got != nil {
		t.Errorf("Expected nil for nil input, got %v", *got)
	}
	if got := FloatPtr("n/a"); got != nil {
		t.Errorf("Expected nil for unconvertible input, got %v", *got)
	}
	if got := FloatPtr(0); got == nil || *got != 0 {
		t.Errorf("Expected explicit zero to survive, got %v", got)
	}
}

func TestBool(t *testing.T) {
	trueValues := []any{true, 1, 2.5, "oui", "Inclus", "couverte", "fourni par la caisse", "yes", "vrai", "disponible"}
	for _, v := range trueValues {
		if !Bool(v) {
			t.Errorf("Expected %v to be true", v)
		}
	}

	falseValues := []any{false, 0, -1, "non", "exclu", "", nil, "absent"}
	for _, v := range falseValues {
		if Bool(v) {
			t.Errorf("Expected %v to be false", v)
		}
	}
}

func TestString(t *testing.T) {
	wards := []string{"semi-privé", "privé", "commune"}

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"exact match", "privé", "privé"},
		{"substring match", "chambre semi-privée", "semi-privé"},
		{"order resolves overlapping values", "semi-privé", "semi-privé"},
		{"unknown value falls back", "suite royale", "commune"},
		{"non string falls back", 42, "commune"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.value, wards, "commune"); got != tt.expected {
				t.Errorf("String(%v) = %q, expected %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestInt(t *testing.T) {
	if got := Int("25 séances", 0); got != 25 {
		t.Errorf("Expected 25, got %d", got)
	}
	if got := Int("beaucoup", 3); got != 3 {
		t.Errorf("Expected default 3, got %d", got)
	}
}
