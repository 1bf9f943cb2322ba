package domain

import (
	"testing"
	"time"
)

func TestMonthWindows(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	cur, prev := MonthWindows(now)

	if want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC); !cur.Start.Equal(want) {
		t.Fatalf("current start = %v, want %v", cur.Start, want)
	}
	if want := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond); !cur.End.Equal(want) {
		t.Fatalf("current end = %v, want %v", cur.End, want)
	}
	if want := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC); !prev.Start.Equal(want) {
		t.Fatalf("previous start = %v, want %v", prev.Start, want)
	}
	if want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond); !prev.End.Equal(want) {
		t.Fatalf("previous end = %v, want %v", prev.End, want)
	}
}

func TestMonthWindowsJanuary(t *testing.T) {
	_, prev := MonthWindows(time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC))
	if prev.Start.Year() != 2024 || prev.Start.Month() != time.December {
		t.Fatalf("expected December 2024, got %v", prev.Start)
	}
}

func TestNewMetric(t *testing.T) {
	m := NewMetric(3, 5)
	if m.Count != 3 || m.Difference != -2 {
		t.Fatalf("unexpected metric %+v", m)
	}
}
