package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Casa Verde", "Casa Verde"},
		{"surrounding space", "  Casa Verde  ", "Casa Verde"},
		{"collapsed whitespace", "Casa \t\n Verde", "Casa Verde"},
		{"empty", "   ", ""},
		{"control chars dropped", "Casa\x00Verde", "CasaVerde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.in); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail(" Guest@Example.COM "); got != "guest@example.com" {
		t.Errorf("unexpected email: %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already e164", "+14155550123", "+14155550123"},
		{"separators", "+1 (415) 555-0123", "+14155550123"},
		{"dots", "+1.415.555.0123", "+14155550123"},
		{"empty", "  ", ""},
		{"letters preserved for validation", "+1call-me", "+1call-me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.in); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
