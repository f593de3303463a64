package service

import (
	"testing"
	"time"

	recurringdomain "github.com/ledgerlinelabs/ledgerline/internal/recurring/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name      string
		from      time.Time
		frequency recurringdomain.Frequency
		interval  int
		want      time.Time
	}{
		{
			name:      "daily",
			from:      date(2026, time.March, 15),
			frequency: recurringdomain.FrequencyDaily,
			interval:  1,
			want:      date(2026, time.March, 16),
		},
		{
			name:      "daily multi step",
			from:      date(2026, time.March, 25),
			frequency: recurringdomain.FrequencyDaily,
			interval:  10,
			want:      date(2026, time.April, 4),
		},
		{
			name:      "weekly",
			from:      date(2026, time.March, 2),
			frequency: recurringdomain.FrequencyWeekly,
			interval:  2,
			want:      date(2026, time.March, 16),
		},
		{
			name:      "monthly",
			from:      date(2026, time.January, 15),
			frequency: recurringdomain.FrequencyMonthly,
			interval:  1,
			want:      date(2026, time.February, 15),
		},
		{
			name:      "monthly clamps to short month",
			from:      date(2026, time.January, 31),
			frequency: recurringdomain.FrequencyMonthly,
			interval:  1,
			want:      date(2026, time.February, 28),
		},
		{
			name:      "monthly clamps to leap february",
			from:      date(2024, time.January, 31),
			frequency: recurringdomain.FrequencyMonthly,
			interval:  1,
			want:      date(2024, time.February, 29),
		},
		{
			name:      "monthly clamps to thirty day month",
			from:      date(2026, time.March, 31),
			frequency: recurringdomain.FrequencyMonthly,
			interval:  1,
			want:      date(2026, time.April, 30),
		},
		{
			name:      "monthly crosses year boundary",
			from:      date(2026, time.November, 30),
			frequency: recurringdomain.FrequencyMonthly,
			interval:  2,
			want:      date(2027, time.January, 30),
		},
		{
			name:      "yearly",
			from:      date(2026, time.June, 1),
			frequency: recurringdomain.FrequencyYearly,
			interval:  1,
			want:      date(2027, time.June, 1),
		},
		{
			name:      "yearly from leap day",
			from:      date(2024, time.February, 29),
			frequency: recurringdomain.FrequencyYearly,
			interval:  1,
			want:      date(2025, time.February, 28),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextOccurrence(tc.from, tc.frequency, tc.interval)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextOccurrence_Invalid(t *testing.T) {
	_, err := NextOccurrence(date(2026, time.March, 1), recurringdomain.FrequencyMonthly, 0)
	assert.ErrorIs(t, err, recurringdomain.ErrInvalidInterval)

	_, err = NextOccurrence(date(2026, time.March, 1), recurringdomain.FrequencyMonthly, -1)
	assert.ErrorIs(t, err, recurringdomain.ErrInvalidInterval)

	_, err = NextOccurrence(date(2026, time.March, 1), recurringdomain.Frequency("fortnightly"), 1)
	assert.ErrorIs(t, err, recurringdomain.ErrInvalidFrequency)
}
