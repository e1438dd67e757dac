package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Patterns accepted by the generic date fallback, most common first.
// Brazilian statements are day-first; OFX uses YYYYMMDD.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})$`),
	regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{2})$`),
	regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`),
	regexp.MustCompile(`^(\d{4})/(\d{2})/(\d{2})$`),
	regexp.MustCompile(`^(\d{8})$`),
}

// Date normalizes a bank-native date string to ISO (YYYY-MM-DD). The
// profile's declared layouts are tried first; when none apply, a generic
// day-first fallback handles the formats seen across Brazilian bank exports.
// Returns false when the string is not a valid calendar date.
//
// Two-digit years are expanded with a pivot: yy > 50 means 19yy, otherwise
// 20yy. This is a documented heuristic carried over from the statement
// formats this tool was built against, not a guarantee.
func Date(s string, layouts ...string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	for i, pat := range datePatterns {
		m := pat.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		switch i {
		case 0, 1: // day-first
			day, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			if len(m[3]) == 2 {
				year = expandYear(year)
			}
			return isoDate(year, month, day)
		case 2, 3: // already year-first
			year, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			return isoDate(year, month, day)
		case 4: // YYYYMMDD (OFX)
			year, _ := strconv.Atoi(s[0:4])
			month, _ := strconv.Atoi(s[4:6])
			day, _ := strconv.Atoi(s[6:8])
			return isoDate(year, month, day)
		}
	}

	return "", false
}

func expandYear(yy int) int {
	if yy > 50 {
		return 1900 + yy
	}
	return 2000 + yy
}

func isoDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	// Round-trip through time.Date to reject dates like Feb 31 that would
	// otherwise roll over into the next month.
	t := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
