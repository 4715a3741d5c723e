package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yashwanthk/focusflow/internal/models"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestListSessions(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sessions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("userId"); got != "yashwanth" {
			t.Errorf("userId = %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.SessionList{Sessions: []models.Session{
			{ID: "s1", UserID: models.UserYashwanth, Date: "2024-06-15", StartTime: "09:00", EndTime: "11:00", Task: "t", DurationMinutes: 120, CreatedAt: 1},
		}})
	}))
	defer srv.Close()

	sessions, err := client.ListSessions(context.Background(), models.UserYashwanth, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "s1" {
		t.Fatalf("sessions = %+v", sessions)
	}
}

func TestNonJSONResponseIsTransportError(t *testing.T) {
	// A proxy or misconfigured host serving HTML must be classified as a
	// transport failure, not an application error.
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>not an api</html>"))
	}))
	defer srv.Close()

	_, err := client.ListSessions(context.Background(), "", "")
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestJSONErrorIsApplicationError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"userId is required"}`))
	}))
	defer srv.Close()

	_, err := client.ListSessions(context.Background(), "", "")
	if err == nil {
		t.Fatal("expected error")
	}
	var terr *TransportError
	if errors.As(err, &terr) {
		t.Fatalf("JSON application error misclassified as transport: %v", err)
	}
}

func TestUnreachableServerIsTransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	err := client.PushSession(context.Background(), models.Session{ID: "x"})
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	var gotPath string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	if err := client.DeleteSession(context.Background(), "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/sessions/abc" {
		t.Fatalf("path = %s", gotPath)
	}
}

func TestPutSetting(t *testing.T) {
	var got models.Setting
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	err := client.PutSetting(context.Background(), models.UserLahari, "customTarget", json.RawMessage("150"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != models.UserLahari || got.Key != "customTarget" || string(got.Value) != "150" {
		t.Fatalf("payload = %+v", got)
	}
}
