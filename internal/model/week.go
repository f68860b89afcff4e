package model

import (
	"fmt"
	"regexp"
	"time"
)

var weekIDPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// WeekID returns the calendar week identifier for t in YYYY-WW form.
// Weeks start on Sunday; days before the year's first Sunday fall in week 00.
func WeekID(t time.Time) string {
	yday := t.YearDay() - 1
	week := (yday + 7 - int(t.Weekday())) / 7
	return fmt.Sprintf("%04d-%02d", t.Year(), week)
}

// ValidWeekID reports whether id looks like a WeekID value.
func ValidWeekID(id string) bool {
	return weekIDPattern.MatchString(id)
}
