package normalize

import "testing"

func TestValue(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"brazilian thousands", "1.234,56", "1234.56", true},
		{"currency prefix", "R$ 1.234,56", "1234.56", true},
		{"negative comma decimal", "-234,50", "-234.5", true},
		{"parenthesized negative", "(123,45)", "-123.45", true},
		{"us format", "1,234.56", "1234.56", true},
		{"plain dot decimal", "1234.56", "1234.56", true},
		{"plain comma decimal", "1234,56", "1234.56", true},
		{"thousands only commas", "1,234,567", "1234567", true},
		{"thousands only dots", "1.234.567", "1234567", true},
		{"integer", "42", "42", true},
		{"usd prefix", "USD 10.00", "10", true},
		{"spaces inside", " 1 234,56 ", "1234.56", true},
		{"empty", "", "", false},
		{"garbage", "abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Value(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Value(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.String() != tt.want {
				t.Errorf("Value(%q) = %s, want %s", tt.input, got.String(), tt.want)
			}
		})
	}
}
