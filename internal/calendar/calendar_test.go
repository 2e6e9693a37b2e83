package calendar

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrierrates/internal/db"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAdvance_SkipsWeekends(t *testing.T) {
	c := New()
	cases := []struct {
		from string
		days int
		want string
	}{
		{"2024-01-02", 3, "2024-01-05"}, // Tue -> Fri
		{"2024-01-05", 1, "2024-01-08"}, // Fri -> Mon
		{"2024-01-04", 5, "2024-01-11"}, // Thu -> next Thu
		{"2024-01-06", 1, "2024-01-09"}, // Sat rolls to Mon, then Tue
		{"2024-01-06", 0, "2024-01-08"},
		{"2024-01-03", 0, "2024-01-03"},
		{"2024-01-08", -1, "2024-01-05"},
	}
	for _, tc := range cases {
		got := c.Advance(date(tc.from), tc.days)
		assert.Equalf(t, tc.want, got.Format(DateLayout), "%s + %d", tc.from, tc.days)
	}
}

func TestAdvance_SkipsHolidays(t *testing.T) {
	holidays, err := ParseHolidays([]string{"2024-12-25", "2025-01-01"})
	require.NoError(t, err)
	c := New(holidays...)

	assert.False(t, c.IsBusinessDay(date("2024-12-25")))
	got := c.Advance(date("2024-12-24"), 2)
	assert.Equal(t, "2024-12-27", got.Format(DateLayout))
	got = c.Advance(date("2024-12-31"), 1)
	assert.Equal(t, "2025-01-02", got.Format(DateLayout))
}

func TestAdvance_KeepsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	from := time.Date(2024, 1, 2, 10, 30, 0, 0, loc)
	got := New().Advance(from, 3)
	assert.Equal(t, time.Date(2024, 1, 5, 10, 30, 0, 0, loc), got)
}

func TestParseHolidays_Invalid(t *testing.T) {
	_, err := ParseHolidays([]string{"12/25/2024"})
	assert.Error(t, err)
}

func TestLoadHolidaysIntegration(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
		return
	}
	pool, err := db.NewPool(context.Background(), dbURL)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(context.Background(), `
        INSERT INTO holidays (day, name) VALUES ('2031-07-04', 'itest')
        ON CONFLICT (day) DO NOTHING`)
	require.NoError(t, err)
	defer pool.Exec(context.Background(), `DELETE FROM holidays WHERE name = 'itest'`)

	days, err := LoadHolidays(context.Background(), pool)
	require.NoError(t, err)
	c := New(days...)
	assert.False(t, c.IsBusinessDay(date("2031-07-04")))
}
