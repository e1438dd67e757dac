package normalize

import "testing"

func TestDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"day first slash", "25/10/2024", "2024-10-25", true},
		{"day first dash", "25-10-2024", "2024-10-25", true},
		{"day first dots", "25.10.2024", "2024-10-25", true},
		{"single digit day and month", "5/3/2024", "2024-03-05", true},
		{"two digit year below pivot", "25/10/24", "2024-10-25", true},
		{"two digit year above pivot", "25/10/99", "1999-10-25", true},
		{"iso passthrough", "2024-10-25", "2024-10-25", true},
		{"iso with slashes", "2024/10/25", "2024-10-25", true},
		{"ofx compact", "20241025", "2024-10-25", true},
		{"rollover rejected", "31/02/2024", "", false},
		{"month out of range", "10/13/2024", "", false},
		{"garbage", "not a date", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Date(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDateDeclaredLayoutWins(t *testing.T) {
	// A profile that declares month-first must beat the day-first fallback.
	got, ok := Date("03/25/2024", "01/02/2006")
	if !ok || got != "2024-03-25" {
		t.Errorf("Date with declared layout = (%q, %v), want (2024-03-25, true)", got, ok)
	}
}
