// Package birthday implements the upcoming-birthday window calculation.
// All arithmetic is done on calendar dates; times of day are ignored.
package birthday

import (
	"time"

	"github.com/contactly/contactly/internal/model"
)

// WindowDays is the inclusive number of days ahead a birthday may fall to
// count as upcoming.
const WindowDays = 7

// DaysUntil returns the number of days from today until the next occurrence
// of the birthday's month/day. The stored year is ignored: a birthday whose
// month/day has already passed this year is compared against next year's
// occurrence. Feb 29 birthdays are treated as Feb 28 in non-leap years.
func DaysUntil(today time.Time, bday time.Time) int {
	today = truncateToDate(today)

	next := occurrenceIn(today.Year(), bday)
	if next.Before(today) {
		next = occurrenceIn(today.Year()+1, bday)
	}

	return int(next.Sub(today).Hours() / 24)
}

// InWindow reports whether the birthday's next occurrence falls within
// [0, WindowDays] days of today, both bounds inclusive.
func InWindow(today time.Time, bday time.Time) bool {
	days := DaysUntil(today, bday)
	return days >= 0 && days <= WindowDays
}

// Upcoming filters contacts to those whose birthday falls within the
// window. Contacts without a birthday are skipped. Input order is kept.
func Upcoming(today time.Time, contacts []*model.Contact) []*model.Contact {
	upcoming := make([]*model.Contact, 0, len(contacts))
	for _, contact := range contacts {
		if contact.Birthday == nil {
			continue
		}
		if InWindow(today, *contact.Birthday) {
			upcoming = append(upcoming, contact)
		}
	}
	return upcoming
}

// occurrenceIn returns the birthday's occurrence in the given year.
// time.Date normalizes Feb 29 to Mar 1 in non-leap years, so the leap-day
// case is pinned to Feb 28 explicitly.
func occurrenceIn(year int, bday time.Time) time.Time {
	month, day := bday.Month(), bday.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
