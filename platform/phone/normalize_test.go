package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"national US number", "(415) 555-2671", "+14155552671"},
		{"already E164", "+14155552671", "+14155552671"},
		{"whitespace trimmed", "  +14155552671  ", "+14155552671"},
		{"empty input", "", ""},
		{"garbage returned as-is", "not-a-number", "not-a-number"},
		{"invalid number returned as-is", "+1555", "+1555"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeE164(tt.input); got != tt.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsDialable(t *testing.T) {
	tests := []struct {
		name   string
		number string
		prefix string
		want   bool
	}{
		{"US number with US prefix", "+14155552671", "+1", true},
		{"Dutch number with US prefix", "+31612345678", "+1", false},
		{"national format rejected", "4155552671", "+1", false},
		{"empty number", "", "+1", false},
		{"empty prefix never dialable", "+14155552671", "", false},
		{"whitespace trimmed", "  +14155552671", "+1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDialable(tt.number, tt.prefix); got != tt.want {
				t.Errorf("IsDialable(%q, %q) = %v, want %v", tt.number, tt.prefix, got, tt.want)
			}
		})
	}
}
