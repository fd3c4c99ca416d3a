package createdat

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrNoDate is returned when no source yields a year and month.
	ErrNoDate = errors.New("no date found")

	// ErrInvariant marks a grammar match that did not produce a 4-digit year
	// and a 2-digit month. It indicates a bug, not bad input.
	ErrInvariant = errors.New("date grammar invariant violated")
)

// YearMonth is the capture year and month as zero-padded digit strings.
type YearMonth struct {
	Year  string
	Month string
}

func (ym YearMonth) String() string {
	return ym.Year + "/" + ym.Month
}

// Valid reports whether Year is 4 ASCII digits and Month is 2 ASCII digits.
func (ym YearMonth) Valid() bool {
	return len(ym.Year) == 4 && len(ym.Month) == 2 && allDigits(ym.Year) && allDigits(ym.Month)
}

// YearNumber returns the numeric year, or 0 if Year is not numeric.
func (ym YearMonth) YearNumber() int {
	n, err := strconv.Atoi(ym.Year)
	if err != nil {
		return 0
	}
	return n
}

// reYearMonth matches the year and month core of the grammar. The boundary
// conditions (no digit before the year, no digit after the optional day)
// are checked by ParseDate since RE2 has no lookaround.
var reYearMonth = regexp.MustCompile(`([12][0-9]{3})[-:\\/]?([0-9]{2})`)

// ParseDate searches text for the first year and month.
//
// The grammar is: a 4-digit year starting with 1 or 2 that is not preceded
// by a digit, an optional separator (one of - : \ /), a 2-digit month, then
// optionally a separator and a 2-digit day, and no digit right after the
// match. A candidate that fails the boundary checks is skipped and the search
// resumes one character later. No range validation is done on the values.
func ParseDate(text string) (YearMonth, error) {
	for pos := 0; pos < len(text); {
		loc := reYearMonth.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		if !digitAt(text, start-1) && validTail(text, end) {
			ym := YearMonth{
				Year:  text[pos+loc[2] : pos+loc[3]],
				Month: text[pos+loc[4] : pos+loc[5]],
			}
			if !ym.Valid() {
				return YearMonth{}, fmt.Errorf("%w: got %q from %q", ErrInvariant, ym, text)
			}
			return ym, nil
		}
		pos = start + 1
	}
	return YearMonth{}, fmt.Errorf("could not find date in %q: %w", text, ErrNoDate)
}

// validTail reports whether the text after the month at end can complete a
// match: an optional separator, an optional 2-digit day, then no digit.
func validTail(text string, end int) bool {
	candidates := []int{end}
	if end < len(text) && isSeparator(text[end]) {
		candidates = append(candidates, end+1)
	}
	for _, i := range candidates {
		if !digitAt(text, i) {
			return true
		}
		if digitAt(text, i+1) && !digitAt(text, i+2) {
			return true
		}
	}
	return false
}

func isSeparator(c byte) bool {
	switch c {
	case '-', ':', '\\', '/':
		return true
	}
	return false
}

func digitAt(text string, i int) bool {
	return i >= 0 && i < len(text) && text[i] >= '0' && text[i] <= '9'
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
