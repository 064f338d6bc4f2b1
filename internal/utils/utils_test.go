package utils

import (
	"testing"
	"time"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{1234.5, "USD", "$1,234.50"},
		{0, "", "$0.00"},
		{99.999, "EUR", "€100.00"},
		{12, "ZAR", "ZAR 12.00"},
	}
	for _, tc := range cases {
		if got := FormatPrice(tc.amount, tc.currency); got != tc.want {
			t.Fatalf("FormatPrice(%v,%q) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount(" 1,234.50 ")
	if err != nil || v != 1234.5 {
		t.Fatalf("ParseAmount = %v, %v", v, err)
	}
	for _, in := range []string{"", "n/a", "NaN", "Inf", "+Inf", "-inf"} {
		if _, err := ParseAmount(in); err == nil {
			t.Fatalf("ParseAmount(%q) should fail", in)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2025-03-01T08:30:00")
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	if ts.Hour() != 8 || ts.Minute() != 30 {
		t.Fatalf("unexpected time %v", ts)
	}
	if _, err := ParseTimestamp("tomorrow"); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)); got != "2025-03" {
		t.Fatalf("MonthKey = %q", got)
	}
}

func TestIntersectFold(t *testing.T) {
	got := IntersectFold([]string{"Paris", "Tokyo", "paris", "Lima"}, []string{"tokyo", "PARIS"})
	if len(got) != 2 || got[0] != "Paris" || got[1] != "Tokyo" {
		t.Fatalf("IntersectFold = %v", got)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" Delta, ;United;\n")
	if len(got) != 2 || got[0] != "Delta" || got[1] != "United" {
		t.Fatalf("SplitList = %v", got)
	}
}
