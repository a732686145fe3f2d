package feedtime

import (
	"testing"
	"time"
)

func TestParse_AppliesDaylightSavingOffset(t *testing.T) {
	t.Parallel()

	loc, err := LoadLocation("")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "summer time", raw: "2022-09-25T15:30:00", want: time.Unix(1664112600, 0).UTC()},
		{name: "winter time", raw: "2022-11-05T15:30:00", want: time.Date(2022, 11, 5, 14, 30, 0, 0, time.UTC)},
		{name: "fractional seconds", raw: "2022-09-25T17:25:12.237", want: time.Date(2022, 9, 25, 15, 25, 12, 237000000, time.UTC)},
		{name: "explicit offset", raw: "2022-09-25T13:30:00Z", want: time.Unix(1664112600, 0).UTC()},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tc.raw, loc)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.raw, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("unexpected instant: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := Parse("not a date", time.UTC); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEndOfDay(t *testing.T) {
	t.Parallel()

	loc, err := LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	got := EndOfDay(time.Date(2022, 9, 25, 22, 30, 0, 0, time.UTC), loc)
	want := time.Date(2022, 9, 26, 23, 59, 59, 999999999, loc)
	if !got.Equal(want) {
		t.Fatalf("unexpected end of day: got=%s want=%s", got, want)
	}
}
