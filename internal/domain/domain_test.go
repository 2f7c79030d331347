package domain

import (
	"testing"
	"time"
)

func TestDayFloor(t *testing.T) {
	ts := time.Date(2024, 3, 1, 18, 45, 30, 999, time.UTC)
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	if got := DayFloor(ts); !got.Equal(want) {
		t.Errorf("DayFloor = %v, want %v", got, want)
	}
}

func TestDayFloor_NormalizesZone(t *testing.T) {
	// 02:30 on March 2nd in UTC+5 is still March 1st in UTC.
	zone := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2024, 3, 2, 2, 30, 0, 0, zone)

	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := DayFloor(ts); !got.Equal(want) {
		t.Errorf("DayFloor = %v, want %v", got, want)
	}
}

func TestDayFloor_Idempotent(t *testing.T) {
	ts := time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)
	once := DayFloor(ts)
	if !DayFloor(once).Equal(once) {
		t.Error("DayFloor not idempotent")
	}
}
