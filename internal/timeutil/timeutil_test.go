package timeutil

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"90s": 90 * time.Second,
		"2d":  48 * time.Hour,
		"1w":  7 * 24 * time.Hour,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Fatalf("%s: got %v want %v", in, got, want)
		}
	}
	if _, err := ParseDuration("3y"); err == nil {
		t.Fatal("expected unknown unit error")
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)

	got, err := ParseDate("2020-12-31", now)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", got)
	}

	got, err = ParseDate("2020-01-01 08:15:00", now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hour() != 8 || got.Minute() != 15 {
		t.Fatalf("unexpected time: %v", got)
	}

	got, err = ParseDate("-30d", now)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(now.Add(-30 * 24 * time.Hour)) {
		t.Fatalf("unexpected relative date: %v", got)
	}

	got, err = ParseDate("today", now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hour() != 0 || got.Day() != 15 {
		t.Fatalf("unexpected today: %v", got)
	}

	if _, err := ParseDate("not-a-date", now); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFormatStrftime(t *testing.T) {
	ts := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	if got := FormatStrftime("%Y-%m-%d", ts); got != "2021-03-04" {
		t.Fatalf("unexpected date format: %q", got)
	}
	if got := FormatStrftime("%Y-%m-%d %H:%M:%S", ts); got != "2021-03-04 05:06:07" {
		t.Fatalf("unexpected datetime format: %q", got)
	}
	if got := FormatStrftime("%d/%m/%Y", ts); got != "04/03/2021" {
		t.Fatalf("unexpected custom format: %q", got)
	}
}
