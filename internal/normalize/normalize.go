// Package normalize canonicalizes single spreadsheet fields. Every function
// here returns a usable value for any input; bad input maps to a documented
// fallback instead of an error.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date is a calendar day extracted from loosely formatted input.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

var (
	datePattern     = regexp.MustCompile(`(\d{4})\D+(\d{1,2})(?:\D+(\d{1,2}))?`)
	nonCurrencyChar = regexp.MustCompile(`[^0-9.\-]`)
	nonDigit        = regexp.MustCompile(`\D`)
)

// ExtractDate finds "YYYY<sep>M[<sep>D]" anywhere in raw. The day defaults
// to 1 when absent. It fails when no year or month is present or when the
// parts don't form a real calendar date (2024-02-30).
func ExtractDate(raw string) (Date, bool) {
	m := datePattern.FindStringSubmatch(CleanText(raw))
	if m == nil {
		return Date{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day := 1
	if m[3] != "" {
		day, _ = strconv.Atoi(m[3])
	}
	if year == 0 || month < 1 || month > 12 || day < 1 {
		return Date{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// ParseCurrency keeps digits, '.' and '-' and parses what is left, truncating
// any fraction. Unparseable or empty input yields 0.
func ParseCurrency(raw string) int64 {
	clean := nonCurrencyChar.ReplaceAllString(raw, "")
	if clean == "" {
		return 0
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0
	}
	return d.IntPart()
}

// ParseCost is ParseCurrency without the sign: sheets record outsourcing
// cost both as "50,000" and "-50,000".
func ParseCost(raw string) int64 {
	v := ParseCurrency(raw)
	if v < 0 {
		return -v
	}
	return v
}

// CleanText collapses runs of whitespace, including newlines, to one space.
func CleanText(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// CleanName drops the staff annotation that follows the first '['.
// "김수아 [C / 수아]" -> "김수아"
func CleanName(raw string) string {
	s := CleanText(raw)
	if i := strings.IndexByte(s, '['); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// PhoneKey is the digits-only form used to match customers.
func PhoneKey(raw string) string {
	return nonDigit.ReplaceAllString(raw, "")
}

// NormalizePhone formats 11-digit Korean mobile numbers as XXX-XXXX-XXXX and
// passes anything else through trimmed.
func NormalizePhone(raw string) string {
	d := PhoneKey(raw)
	if len(d) == 11 && strings.HasPrefix(d, "01") {
		return d[:3] + "-" + d[3:7] + "-" + d[7:]
	}
	return strings.TrimSpace(raw)
}

const minPhoneDigits = 8

// ValidPhone reports whether a phone can identify a customer: at least 8
// digits and no placeholder suffix such as "0000".
func ValidPhone(raw string) bool {
	d := PhoneKey(raw)
	if len(d) < minPhoneDigits {
		return false
	}
	tail := d[len(d)-4:]
	return strings.Count(tail, tail[:1]) != len(tail)
}
