package timeutil

import (
	"testing"
	"time"
)

func TestComputeDuration(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		want    int
		wantErr bool
	}{
		{"same day", "09:00", "11:00", 120, false},
		{"partial hour", "09:15", "10:00", 45, false},
		{"crosses midnight", "23:30", "01:00", 90, false},
		{"crosses midnight full", "22:00", "06:00", 480, false},
		{"start equals end", "09:00", "09:00", 0, false},
		{"one minute before midnight wrap", "00:30", "00:00", 1410, false},
		{"bad clock", "9am", "10:00", 0, true},
		{"hour out of range", "24:00", "01:00", 0, true},
		{"minute out of range", "10:60", "11:00", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDuration(tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ComputeDuration(%s, %s) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestComputeDurationWrapFormula(t *testing.T) {
	// When end < start the result must equal (1440 - start) + end.
	got, err := ComputeDuration("21:45", "02:15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (1440 - (21*60 + 45)) + (2*60 + 15)
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestOverlaps(t *testing.T) {
	// A=[540,600) B=[570,630): symmetric overlap.
	if !Overlaps(540, 600, 570, 630) {
		t.Fatal("expected overlap")
	}
	if !Overlaps(570, 630, 540, 600) {
		t.Fatal("expected overlap to be symmetric")
	}
	// Touching endpoints do not overlap.
	if Overlaps(540, 600, 600, 660) {
		t.Fatal("touching intervals must not overlap")
	}
	if Overlaps(600, 660, 540, 600) {
		t.Fatal("touching intervals must not overlap")
	}
	// Containment.
	if !Overlaps(540, 720, 570, 600) {
		t.Fatal("expected contained interval to overlap")
	}
}

func TestDateKeyRoundTrip(t *testing.T) {
	key := "2024-03-09"
	day, err := ParseDate(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if DateKey(day) != key {
		t.Fatalf("round trip gave %s", DateKey(day))
	}

	next, err := AddDays(key, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != "2024-03-10" {
		t.Fatalf("AddDays gave %s", next)
	}
}

func TestIsFuture(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

	if IsFuture("2024-06-15", "11:00", now) {
		t.Fatal("earlier today is not future")
	}
	if !IsFuture("2024-06-15", "12:01", now) {
		t.Fatal("later today is future")
	}
	if !IsFuture("2024-06-16", "00:00", now) {
		t.Fatal("tomorrow is future")
	}
	if IsFuture("2024-06-14", "23:59", now) {
		t.Fatal("yesterday is not future")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{45, "45m"},
		{60, "1h"},
		{135, "2h 15m"},
		{0, "0m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
