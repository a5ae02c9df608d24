package utils

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(dateStr string) (civil.Date, error) {
	d, err := civil.ParseDate(dateStr)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", dateStr)
	}
	return d, nil
}

func FormatDate(date civil.Date) string {
	return date.String()
}

// Today is the calendar day of now in now's own location.
func Today(now time.Time) civil.Date {
	return civil.DateOf(now)
}

// DaysAgo returns how many days date lies before today; negative for
// future dates.
func DaysAgo(today, date civil.Date) int {
	return today.DaysSince(date)
}
