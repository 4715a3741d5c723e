package validate

import (
	"testing"
	"time"

	"github.com/yashwanthk/focusflow/internal/models"
)

var testNow = time.Date(2024, 6, 15, 20, 0, 0, 0, time.Local)

func input(start, end string) models.SessionInput {
	return models.SessionInput{
		UserID:    models.UserYashwanth,
		Date:      "2024-06-15",
		StartTime: start,
		EndTime:   end,
		Task:      "reading",
	}
}

func existing(id, date, start, end string) models.Session {
	return models.Session{
		ID:        id,
		UserID:    models.UserYashwanth,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Task:      "prior work",
	}
}

func TestSessionAccepted(t *testing.T) {
	duration, err := Session(input("09:00", "11:00"), nil, "", testNow)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if duration != 120 {
		t.Fatalf("duration = %d, want 120", duration)
	}
}

func TestSessionRejections(t *testing.T) {
	tests := []struct {
		name   string
		in     models.SessionInput
		others []models.Session
		reason Reason
	}{
		{
			name:   "blank task",
			in:     models.SessionInput{UserID: models.UserLahari, Date: "2024-06-15", StartTime: "09:00", EndTime: "10:00", Task: "   "},
			reason: ReasonEmptyField,
		},
		{
			name:   "unknown user",
			in:     models.SessionInput{UserID: "nobody", Date: "2024-06-15", StartTime: "09:00", EndTime: "10:00", Task: "x"},
			reason: ReasonEmptyField,
		},
		{
			name:   "zero duration",
			in:     input("09:00", "09:00"),
			reason: ReasonNonPositive,
		},
		{
			name:   "unparseable clock",
			in:     input("9am", "10:00"),
			reason: ReasonBadClock,
		},
		{
			name:   "future start",
			in:     input("21:00", "22:00"),
			reason: ReasonFuture,
		},
		{
			name:   "overlap",
			in:     input("09:30", "10:30"),
			others: []models.Session{existing("a", "2024-06-15", "09:00", "10:00")},
			reason: ReasonOverlap,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Session(tt.in, tt.others, "", testNow)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if err.Reason != tt.reason {
				t.Fatalf("reason = %s, want %s", err.Reason, tt.reason)
			}
		})
	}
}

func TestHasOverlap(t *testing.T) {
	a := existing("a", "2024-06-15", "09:00", "10:00")

	t.Run("symmetric", func(t *testing.T) {
		if !HasOverlap(input("09:30", "10:30"), []models.Session{a}, "") {
			t.Fatal("expected overlap")
		}
		b := existing("b", "2024-06-15", "09:30", "10:30")
		if !HasOverlap(input("09:00", "10:00"), []models.Session{b}, "") {
			t.Fatal("expected overlap regardless of which side is candidate")
		}
	})

	t.Run("touching endpoints do not overlap", func(t *testing.T) {
		if HasOverlap(input("10:00", "11:00"), []models.Session{a}, "") {
			t.Fatal("touching intervals must not conflict")
		}
	})

	t.Run("different date ignored", func(t *testing.T) {
		other := existing("c", "2024-06-14", "09:00", "10:00")
		if HasOverlap(input("09:30", "10:30"), []models.Session{other}, "") {
			t.Fatal("different dates cannot conflict")
		}
	})

	t.Run("other user ignored", func(t *testing.T) {
		other := existing("d", "2024-06-15", "09:00", "10:00")
		other.UserID = models.UserLahari
		if HasOverlap(input("09:30", "10:30"), []models.Session{other}, "") {
			t.Fatal("other user's sessions cannot conflict")
		}
	})

	t.Run("edited session excluded", func(t *testing.T) {
		if HasOverlap(input("09:30", "10:30"), []models.Session{a}, "a") {
			t.Fatal("a session must not conflict with itself during edit")
		}
	})

	t.Run("midnight crossing normalized", func(t *testing.T) {
		late := existing("e", "2024-06-15", "23:00", "01:00")
		if !HasOverlap(input("23:30", "23:45"), []models.Session{late}, "") {
			t.Fatal("expected overlap inside a midnight-crossing session")
		}
	})
}
