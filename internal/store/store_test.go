package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/yashwanthk/focusflow/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleSession(id string) models.Session {
	return models.Session{
		ID:              id,
		UserID:          models.UserYashwanth,
		Date:            "2024-06-15",
		StartTime:       "09:00",
		EndTime:         "11:00",
		Task:            "deep work",
		DurationMinutes: 120,
		CreatedAt:       1700000000000,
	}
}

func TestSessionStore(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionStore(db)

	t.Run("upsert and get", func(t *testing.T) {
		if err := sessions.Upsert(sampleSession("s1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := sessions.GetByID("s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("expected session, got nil")
		}
		if got.Task != "deep work" || got.DurationMinutes != 120 {
			t.Fatalf("got %+v", got)
		}
		if got.UpdatedAt == 0 {
			t.Fatal("expected updatedAt to be stamped")
		}
	})

	t.Run("upsert same id replaces the record in full", func(t *testing.T) {
		again := sampleSession("s1")
		again.Task = "edited"
		again.CreatedAt = 1700000000500 // adopted, like every other field
		if err := sessions.Upsert(again); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		count, err := db.SessionCount()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 1 {
			t.Fatalf("count = %d, want 1", count)
		}

		got, _ := sessions.GetByID("s1")
		if got.Task != "edited" {
			t.Fatalf("task = %q, want edited", got.Task)
		}
		if got.CreatedAt != 1700000000500 {
			t.Fatalf("createdAt = %d, want the incoming 1700000000500", got.CreatedAt)
		}
	})

	t.Run("get absent id returns nil", func(t *testing.T) {
		got, err := sessions.GetByID("nope")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})

	t.Run("list ordering", func(t *testing.T) {
		s2 := sampleSession("s2")
		s2.Date = "2024-06-16"
		s2.StartTime = "08:00"
		s3 := sampleSession("s3")
		s3.Date = "2024-06-16"
		s3.StartTime = "14:00"
		for _, s := range []models.Session{s2, s3} {
			if err := sessions.Upsert(s); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		all, err := sessions.ListAll()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("len = %d, want 3", len(all))
		}
		// date desc, start desc
		if all[0].ID != "s3" || all[1].ID != "s2" || all[2].ID != "s1" {
			t.Fatalf("order = %s,%s,%s", all[0].ID, all[1].ID, all[2].ID)
		}

		byDate, err := sessions.ListByDate("2024-06-16", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// single date: start asc
		if len(byDate) != 2 || byDate[0].ID != "s2" || byDate[1].ID != "s3" {
			t.Fatalf("byDate order wrong: %+v", byDate)
		}
	})

	t.Run("list by user filters", func(t *testing.T) {
		other := sampleSession("s4")
		other.UserID = models.UserLahari
		if err := sessions.Upsert(other); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		mine, err := sessions.ListByUser(models.UserYashwanth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, s := range mine {
			if s.UserID != models.UserYashwanth {
				t.Fatalf("foreign session leaked: %+v", s)
			}
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		if err := sessions.Delete("s1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := sessions.Delete("s1"); err != nil {
			t.Fatalf("second delete errored: %v", err)
		}
		got, _ := sessions.GetByID("s1")
		if got != nil {
			t.Fatal("session still present after delete")
		}
	})
}

func TestSettingStore(t *testing.T) {
	db := setupTestDB(t)
	settings := NewSettingStore(db)

	t.Run("unset returns nil", func(t *testing.T) {
		raw, err := settings.Get(models.UserYashwanth, "customTarget")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if raw != nil {
			t.Fatalf("expected nil, got %s", raw)
		}
	})

	t.Run("set and get round trip", func(t *testing.T) {
		if err := settings.Set(models.UserYashwanth, "customTarget", 150); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n, err := settings.GetInt(models.UserYashwanth, "customTarget", 120)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 150 {
			t.Fatalf("got %d, want 150", n)
		}
	})

	t.Run("scoped per user", func(t *testing.T) {
		n, err := settings.GetInt(models.UserLahari, "customTarget", 120)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 120 {
			t.Fatalf("other user's setting leaked: %d", n)
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		if err := settings.Set(models.UserYashwanth, "customTarget", 90); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n, _ := settings.GetInt(models.UserYashwanth, "customTarget", 120)
		if n != 90 {
			t.Fatalf("got %d, want 90", n)
		}
	})

	t.Run("all returns raw values", func(t *testing.T) {
		if err := settings.Set(models.UserYashwanth, "theme", "dark"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		all, err := settings.All(models.UserYashwanth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("len = %d, want 2", len(all))
		}
		var theme string
		if err := json.Unmarshal(all["theme"], &theme); err != nil || theme != "dark" {
			t.Fatalf("theme = %s (%v)", all["theme"], err)
		}
	})
}

func TestClearAll(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionStore(db)
	settings := NewSettingStore(db)

	_ = sessions.Upsert(sampleSession("s1"))
	_ = settings.Set(models.UserYashwanth, "customTarget", 150)

	if err := db.ClearAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, _ := db.SessionCount()
	if count != 0 {
		t.Fatalf("sessions remain after clear: %d", count)
	}
	raw, _ := settings.Get(models.UserYashwanth, "customTarget")
	if raw != nil {
		t.Fatal("settings remain after clear")
	}
}

func TestImportLegacySnapshot(t *testing.T) {
	db := setupTestDB(t)

	snap := map[string]any{
		"sessions": []models.Session{
			sampleSession("legacy-1"),
			sampleSession("legacy-2"),
		},
		"customTarget": 180,
	}
	data, _ := json.Marshal(snap)
	path := filepath.Join(t.TempDir(), "focusflow_v3_state.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	t.Run("imports into empty store", func(t *testing.T) {
		n, err := ImportLegacySnapshot(db, path, models.UserYashwanth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 2 {
			t.Fatalf("imported = %d, want 2", n)
		}
		target, _ := NewSettingStore(db).GetInt(models.UserYashwanth, models.SettingCustomTarget, 120)
		if target != 180 {
			t.Fatalf("target = %d, want 180", target)
		}
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		n, err := ImportLegacySnapshot(db, path, models.UserYashwanth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Fatalf("imported = %d, want 0", n)
		}
	})

	t.Run("missing file is a no-op", func(t *testing.T) {
		empty := setupTestDB(t)
		n, err := ImportLegacySnapshot(empty, filepath.Join(t.TempDir(), "absent.json"), models.UserYashwanth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Fatalf("imported = %d, want 0", n)
		}
	})
}
