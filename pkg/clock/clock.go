package clock

import "time"

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// MustParseDate returns a Fixed clock at midnight UTC of an ISO date.
func MustParseDate(s string) Fixed {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return Fixed(t)
}
