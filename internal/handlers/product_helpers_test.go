package handlers

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"The Signature Tote", "the-signature-tote"},
		{"  Évening   Clutch!  ", "vening-clutch"},
		{"Mini-Tote 2", "mini-tote-2"},
		{"UPPER", "upper"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
