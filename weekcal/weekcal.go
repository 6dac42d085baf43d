// Package weekcal parses the "Week Ending MM-DD-YY" time labels used by the
// source-of-truth workbooks and derives their calendar columns (ISO week,
// month number, month name, month code, year).
package weekcal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefix is the literal label that precedes the date in a Time cell.
const Prefix = "Week Ending"

// YearPivot is the two-digit-year windowing boundary: yy < YearPivot is
// read as 20yy, anything else as 19yy. The historical data this format
// covers starts in the 1900s and the live data stays well under 2050, so
// the boundary is fixed here rather than derived from the current date.
const YearPivot = 50

// ParseWeekEnding parses a label like "Week Ending 01-05-25" into the
// calendar date it names. The prefix is optional; a bare "MM-DD-YY" date is
// accepted. Leading and trailing whitespace is ignored.
func ParseWeekEnding(s string) (time.Time, error) {
	datePart := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), Prefix))
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("weekcal: malformed week label %q", s)
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	yy, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("weekcal: malformed week label %q", s)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || yy < 0 || yy > 99 {
		return time.Time{}, fmt.Errorf("weekcal: week label %q out of range", s)
	}
	year := 1900 + yy
	if yy < YearPivot {
		year = 2000 + yy
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 02-30 becomes March 2nd); reject
	// labels that do not name a real calendar day.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("weekcal: week label %q is not a calendar date", s)
	}
	return t, nil
}

// FormatWeekEnding renders a date back into its label form,
// e.g. "Week Ending 01-05-25".
func FormatWeekEnding(t time.Time) string {
	return fmt.Sprintf("%s %02d-%02d-%02d", Prefix, int(t.Month()), t.Day(), t.Year()%100)
}

// Info holds the calendar columns derived from one week-ending date.
type Info struct {
	Week      int    // ISO 8601 week number
	MonthNum  int    // 1–12
	MonthName string // English month name, e.g. "January"
	MonthCode string // "N. Mon", e.g. "1. Jan"
	Year      int
}

// InfoFor derives the calendar columns for the given week-ending date.
func InfoFor(t time.Time) Info {
	_, week := t.ISOWeek()
	return Info{
		Week:      week,
		MonthNum:  int(t.Month()),
		MonthName: t.Month().String(),
		MonthCode: MonthCode(int(t.Month())),
		Year:      t.Year(),
	}
}

// MonthCode returns the "N. Mon" label for a 1-based month number.
func MonthCode(month int) string {
	return fmt.Sprintf("%d. %s", month, time.Month(month).String()[:3])
}
