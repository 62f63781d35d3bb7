package academicyear

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub/internal/apperr"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var year2024 = Period{
	Opening:      date(2024, time.January, 1),
	Closure:      date(2024, time.June, 1),
	FinalClosure: date(2024, time.July, 1),
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"inside submission window", date(2024, time.May, 1), Valid},
		{"inside late window", date(2024, time.June, 15), Closure},
		{"after final closure", date(2024, time.August, 1), Invalid},
		{"before opening", date(2023, time.December, 1), Invalid},
		{"at opening", year2024.Opening, Valid},
		{"at closure prefers valid", year2024.Closure, Valid},
		{"just after closure", year2024.Closure.Add(time.Nanosecond), Closure},
		{"at final closure", year2024.FinalClosure, Closure},
		{"just after final closure", year2024.FinalClosure.Add(time.Nanosecond), Invalid},
		{"just before opening", year2024.Opening.Add(-time.Nanosecond), Invalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(year2024, tc.now))
		})
	}
}

func TestClassifyWithoutLateWindow(t *testing.T) {
	p := Period{Opening: date(2024, 1, 1), Closure: date(2024, 6, 1), FinalClosure: date(2024, 6, 1)}
	assert.Equal(t, Valid, Classify(p, date(2024, 6, 1)))
	assert.Equal(t, Invalid, Classify(p, date(2024, 6, 2)))
}

func TestCheckSubmission(t *testing.T) {
	require.NoError(t, CheckSubmission(year2024, date(2024, time.May, 1)))

	err := CheckSubmission(year2024, date(2024, time.June, 15))
	require.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Equal(t, "invalid year or missing user", apperr.Message(err))

	require.ErrorIs(t, CheckSubmission(year2024, date(2024, time.August, 1)), apperr.ErrInvalidState)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(year2024))
	require.NoError(t, Validate(Period{Opening: date(2024, 1, 1), Closure: date(2024, 6, 1), FinalClosure: date(2024, 6, 1)}))

	bad := []Period{
		{Opening: date(2024, 6, 1), Closure: date(2024, 6, 1), FinalClosure: date(2024, 7, 1)},
		{Opening: date(2024, 7, 1), Closure: date(2024, 6, 1), FinalClosure: date(2024, 8, 1)},
		{Opening: date(2024, 1, 1), Closure: date(2024, 7, 1), FinalClosure: date(2024, 6, 1)},
		{Opening: date(2024, 1, 1), Closure: date(2024, 6, 1)},
	}
	for _, p := range bad {
		assert.ErrorIs(t, Validate(p), apperr.ErrInvalidState, "%+v", p)
	}
}
