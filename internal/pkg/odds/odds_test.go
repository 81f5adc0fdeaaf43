package odds

import (
	"errors"
	"math"
	"testing"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"+150", 2.5},
		{"+100", 2.0},
		{"+200", 3.0},
		{"+120", 2.2},
		{"-150", 1.6667},
		{"-200", 1.5},
		{"-250", 1.4},
		{"-110", 1.9091},
		{"2.5", 2.5},
		{"1.91", 1.91},
		{" +150 ", 2.5},
	}
	for _, tt := range tests {
		got, err := ToDecimal(tt.text)
		if err != nil {
			t.Errorf("ToDecimal(%q) error = %v", tt.text, err)
			continue
		}
		if math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("ToDecimal(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestToDecimalInvalid(t *testing.T) {
	tests := []string{"", "abc", "+abc", "-abc", "+0", "-0", "1.0", "0.5"}
	for _, text := range tests {
		if _, err := ToDecimal(text); err == nil {
			t.Errorf("ToDecimal(%q) = nil error, want parse error", text)
		} else if !errors.Is(err, ErrParse) {
			t.Errorf("ToDecimal(%q) error = %v, want ErrParse", text, err)
		}
	}
}

func TestIsSafe(t *testing.T) {
	tests := []struct {
		decimal float64
		want    bool
	}{
		{1.4, true},  // -250, band edge
		{3.0, true},  // +200, band edge
		{2.0, true},  // +100
		{1.5, true},  // -200
		{1.39, false},
		{3.01, false},
		{1.0, false},
		{10.0, false},
	}
	for _, tt := range tests {
		if got := IsSafe(tt.decimal); got != tt.want {
			t.Errorf("IsSafe(%v) = %v, want %v", tt.decimal, got, tt.want)
		}
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"$5.50", 5.50},
		{"$1,000.50", 1000.50},
		{"5.50", 5.50},
		{"$5", 5.0},
		{"$0.00", 0.0},
		{"  $12.34  ", 12.34},
		{"€1,234.56", 1234.56},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.text)
		if err != nil {
			t.Errorf("ParseMoney(%q) error = %v", tt.text, err)
			continue
		}
		if math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("ParseMoney(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestParseMoneyInvalid(t *testing.T) {
	tests := []string{"", "abc", "$", "-5.00"}
	for _, text := range tests {
		if _, err := ParseMoney(text); err == nil {
			t.Errorf("ParseMoney(%q) = nil error, want parse error", text)
		} else if !errors.Is(err, ErrParse) {
			t.Errorf("ParseMoney(%q) error = %v, want ErrParse", text, err)
		}
	}
}

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"Potential payout: $50.00", 50.00, true},
		{"Payout $1,250.75 pending", 1250.75, true},
		{"payout 1.50", 1.50, true},
		{"no numbers here", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractAmount(tt.text)
		if ok != tt.wantOK {
			t.Errorf("ExtractAmount(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			continue
		}
		if ok && math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("ExtractAmount(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
