package billbook

import (
	"testing"
	"time"
)

func TestAddMonthsClipped(t *testing.T) {
	testCases := []struct {
		name   string
		from   Date
		months int
		day    int
		want   Date
	}{
		{
			name: "due day fits target month",
			from: NewDate(2025, time.January, 15), months: 1, day: 15,
			want: NewDate(2025, time.February, 15),
		},
		{
			name: "due day 31 clipped to 30-day month",
			from: NewDate(2025, time.March, 31), months: 1, day: 31,
			want: NewDate(2025, time.April, 30),
		},
		{
			name: "due day 31 clipped to february",
			from: NewDate(2025, time.January, 31), months: 1, day: 31,
			want: NewDate(2025, time.February, 28),
		},
		{
			name: "due day 29 in leap february",
			from: NewDate(2024, time.January, 29), months: 1, day: 29,
			want: NewDate(2024, time.February, 29),
		},
		{
			name: "year rollover",
			from: NewDate(2025, time.November, 10), months: 3, day: 10,
			want: NewDate(2026, time.February, 10),
		},
		{
			name: "zero months keeps the month",
			from: NewDate(2025, time.June, 1), months: 0, day: 20,
			want: NewDate(2025, time.June, 20),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.AddMonthsClipped(tc.months, tc.day); got != tc.want {
				t.Errorf("AddMonthsClipped(%d, %d) = %s, want %s", tc.months, tc.day, got, tc.want)
			}
		})
	}
}

func TestAddMonthNormalizes(t *testing.T) {
	// AddMonth keeps time.Date normalization: Jan 31 + 1 month overflows
	// into March. Due-date logic must use AddMonthsClipped instead.
	got := NewDate(2025, time.January, 31).AddMonth(1)
	if got.Month() != time.March {
		t.Errorf("AddMonth(1) from Jan 31 = %s, want a March date", got)
	}
}

func TestMonthKey(t *testing.T) {
	jan := MonthOf(NewDate(2025, time.January, 20))
	feb := jan.Next()
	if feb != (MonthKey{Year: 2025, Month: time.February}) {
		t.Errorf("Next() = %v", feb)
	}
	if !jan.Before(feb) || feb.Before(jan) {
		t.Errorf("Before() ordering broken for %v and %v", jan, feb)
	}
	dec := MonthOf(NewDate(2025, time.December, 1))
	if next := dec.Next(); next != (MonthKey{Year: 2026, Month: time.January}) {
		t.Errorf("Next() across year = %v", next)
	}
	if got := jan.Last(); got != NewDate(2025, time.January, 31) {
		t.Errorf("Last() = %s", got)
	}
	if got := jan.String(); got != "2025-01" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-7-1")
	if err != nil {
		t.Fatalf("ParseDate lenient form failed: %v", err)
	}
	if d != NewDate(2025, time.July, 1) {
		t.Errorf("ParseDate = %s", d)
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("ParseDate accepted garbage")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.February, 28)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `"2025-02-28"` {
		t.Errorf("MarshalJSON = %s", data)
	}
	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %s, want %s", back, d)
	}
}
