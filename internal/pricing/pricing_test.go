package pricing

import "testing"

func TestParseFormattedPrices(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$1,280", 1280},
		{"$980", 980},
		{"$12,345,678", 12345678},
		{"$49.99", 49.99},
		{"720", 720},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseMalformedPriceYieldsZero(t *testing.T) {
	tests := []string{"", "free", "€50", "$", "$1.2.3"}
	for _, in := range tests {
		if got := Parse(in); got != 0 {
			t.Errorf("Parse(%q) = %v, want 0", in, got)
		}
	}
}

func TestFormatRoundTrips(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1280, "$1,280"},
		{980, "$980"},
		{0, "$0"},
		{1450.5, "$1,450.50"},
	}
	for _, tt := range tests {
		got := Format(tt.amount)
		if got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.amount, got, tt.want)
		}
		if back := Parse(got); back != tt.amount {
			t.Errorf("Parse(Format(%v)) = %v", tt.amount, back)
		}
	}
}

func TestFormatCarriesCentsIntoDollars(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1.999, "$2"},
		{1280.999, "$1,281"},
		{999.999, "$1,000"},
		{49.994, "$49.99"},
		{0.05, "$0.05"},
	}
	for _, tt := range tests {
		if got := Format(tt.amount); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestSubtotal(t *testing.T) {
	items := []LineItem{
		{Price: "$100", Quantity: 2},
		{Price: "$50", Quantity: 1},
	}
	if got := Subtotal(items); got != 250 {
		t.Fatalf("Subtotal = %v, want 250", got)
	}
}

func TestSubtotalSkipsMalformedPrices(t *testing.T) {
	items := []LineItem{
		{Price: "$100", Quantity: 1},
		{Price: "n/a", Quantity: 3},
	}
	if got := Subtotal(items); got != 100 {
		t.Fatalf("Subtotal = %v, want 100 (malformed price contributes 0)", got)
	}
}
