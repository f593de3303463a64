package service

import (
	"time"

	recurringdomain "github.com/ledgerlinelabs/ledgerline/internal/recurring/domain"
)

// NextOccurrence advances a cursor by one cadence step. Month and year
// steps are calendar-correct: the day of month is clamped to the target
// month's length (Jan 31 + 1 month lands on Feb 28, or Feb 29 in a leap
// year), unlike time.AddDate which rolls the overflow into the next month.
func NextOccurrence(from time.Time, frequency recurringdomain.Frequency, interval int) (time.Time, error) {
	if interval <= 0 {
		return time.Time{}, recurringdomain.ErrInvalidInterval
	}

	switch frequency {
	case recurringdomain.FrequencyDaily:
		return from.AddDate(0, 0, interval), nil
	case recurringdomain.FrequencyWeekly:
		return from.AddDate(0, 0, 7*interval), nil
	case recurringdomain.FrequencyMonthly:
		return addMonthsClamped(from, interval), nil
	case recurringdomain.FrequencyYearly:
		return addMonthsClamped(from, 12*interval), nil
	default:
		return time.Time{}, recurringdomain.ErrInvalidFrequency
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	total := int(month) - 1 + months
	year += total / 12
	month = time.Month(total%12 + 1)

	if limit := daysInMonth(year, month); day > limit {
		day = limit
	}
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// daysInMonth exploits day-zero normalization: day 0 of the following
// month is the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
