package crm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jdillon-sports/AcademyBack/internal/models"
	"go.uber.org/zap"
)

func waitFor(t *testing.T, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestBookingCreatedPostsEvent(t *testing.T) {
	received := make(chan event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/events" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		var evt event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		received <- evt
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", zap.NewNop())
	client.BookingCreated(&models.Booking{ID: 31, MemberID: 42, Status: "confirmed"})

	select {
	case evt := <-received:
		if evt.Type != "booking.created" {
			t.Fatalf("expected booking.created, got %q", evt.Type)
		}
		if evt.UserID != 42 {
			t.Fatalf("expected user 42, got %d", evt.UserID)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("event never arrived")
	}
}

func TestProgressAdvancedPostsEvent(t *testing.T) {
	received := make(chan event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt event
		_ = json.NewDecoder(r.Body).Decode(&evt)
		received <- evt
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", zap.NewNop())
	client.ProgressAdvanced(&models.MemberProgress{UserID: 7, CurrentPhase: "Power", CurrentWeek: 1})

	select {
	case evt := <-received:
		if evt.Type != "progress.advanced" || evt.UserID != 7 {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("event never arrived")
	}
}

func TestSendRetriesServerErrors(t *testing.T) {
	var attempts int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", zap.NewNop())
	client.BookingCancelled(&models.Booking{ID: 1, MemberID: 2})

	waitFor(t, func() bool { return atomic.LoadInt64(&attempts) >= 2 })
}

func TestNilAndUnconfiguredClientsDropEvents(t *testing.T) {
	var nilClient *Client
	nilClient.BookingCreated(&models.Booking{ID: 1, MemberID: 2})

	// No base URL configured, the send is a no-op rather than an error.
	client := NewClient("", "", zap.NewNop())
	client.BookingCreated(&models.Booking{ID: 1, MemberID: 2})
}
