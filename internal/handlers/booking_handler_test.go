package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jdillon-sports/AcademyBack/internal/models"
	"github.com/jdillon-sports/AcademyBack/internal/repository"
	"github.com/jdillon-sports/AcademyBack/internal/services"
)

type stubBookingService struct {
	createResult    *models.Booking
	createErr       error
	listResult      []models.Booking
	listErr         error
	getResult       *models.Booking
	getErr          error
	cancelResult    *models.Booking
	cancelErr       error
	availableResult bool
	availableErr    error
	lastMemberID    int64
	lastActorID     int64
	lastRole        string
	lastBookingID   int64
	lastCoachID     int64
	lastInput       services.CreateBookingInput
	lastFilter      repository.BookingListFilter
}

func (s *stubBookingService) CreateBooking(_ context.Context, memberID int64, input services.CreateBookingInput) (*models.Booking, error) {
	s.lastMemberID = memberID
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubBookingService) ListBookings(_ context.Context, actorID int64, role string, filter repository.BookingListFilter) ([]models.Booking, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastFilter = filter
	return s.listResult, s.listErr
}

func (s *stubBookingService) GetBooking(_ context.Context, actorID int64, role string, bookingID int64) (*models.Booking, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastBookingID = bookingID
	return s.getResult, s.getErr
}

func (s *stubBookingService) CancelBooking(_ context.Context, actorID int64, role string, bookingID int64) (*models.Booking, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastBookingID = bookingID
	return s.cancelResult, s.cancelErr
}

func (s *stubBookingService) CheckAvailability(_ context.Context, coachID int64, start, end time.Time) (bool, error) {
	s.lastCoachID = coachID
	return s.availableResult, s.availableErr
}

func newBookingTestApp(service *stubBookingService, role, userID string) *fiber.App {
	handler := &BookingHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Post("/api/v1/bookings", handler.CreateBooking)
	app.Get("/api/v1/bookings", handler.ListBookings)
	app.Get("/api/v1/bookings/availability", handler.CheckAvailability)
	app.Get("/api/v1/bookings/:id", handler.GetBooking)
	app.Put("/api/v1/bookings/:id/cancel", handler.CancelBooking)
	return app
}

func TestCreateBookingReturnsCreatedBooking(t *testing.T) {
	service := &stubBookingService{
		createResult: &models.Booking{
			ID:       31,
			MemberID: 42,
			CoachID:  7,
			Status:   "confirmed",
		},
	}
	app := newBookingTestApp(service, "member", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{
		"service_type_id": 1,
		"coach_id": 7,
		"start_time": "2030-03-15T09:00:00Z",
		"end_time": "2030-03-15T10:00:00Z",
		"payment_method": "direct_pay",
		"amount_paid": 55
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastMemberID != 42 {
		t.Fatalf("expected member id 42, got %d", service.lastMemberID)
	}
	if service.lastInput.CoachID != 7 || service.lastInput.PaymentMethod != "direct_pay" {
		t.Fatalf("unexpected input: %+v", service.lastInput)
	}
	if !service.lastInput.StartTime.Equal(time.Date(2030, 3, 15, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start time: %v", service.lastInput.StartTime)
	}

	var body struct {
		Booking models.Booking `json:"booking"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Booking.ID != 31 {
		t.Fatalf("expected booking 31, got %d", body.Booking.ID)
	}
}

func TestCreateBookingRequiresMemberRole(t *testing.T) {
	service := &stubBookingService{}
	app := newBookingTestApp(service, "coach", "7")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{
		"service_type_id": 1,
		"coach_id": 7,
		"start_time": "2030-03-15T09:00:00Z",
		"end_time": "2030-03-15T10:00:00Z",
		"payment_method": "direct_pay"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestCreateBookingRejectsMissingFields(t *testing.T) {
	service := &stubBookingService{}
	app := newBookingTestApp(service, "member", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{
		"coach_id": 7,
		"payment_method": "direct_pay"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateBookingReturnsConflictForTakenSlot(t *testing.T) {
	service := &stubBookingService{createErr: services.ErrSlotUnavailable}
	app := newBookingTestApp(service, "member", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{
		"service_type_id": 1,
		"coach_id": 7,
		"start_time": "2030-03-15T09:00:00Z",
		"end_time": "2030-03-15T10:00:00Z",
		"payment_method": "direct_pay"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestCreateBookingMapsPackageErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"package not found", services.ErrPackageNotFound, http.StatusNotFound},
		{"package expired", services.ErrPackageExpired, http.StatusUnprocessableEntity},
		{"no credits", services.ErrNoCreditsRemaining, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubBookingService{createErr: tc.err}
			app := newBookingTestApp(service, "member", "42")

			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{
				"service_type_id": 1,
				"coach_id": 7,
				"start_time": "2030-03-15T09:00:00Z",
				"end_time": "2030-03-15T10:00:00Z",
				"payment_method": "package",
				"purchased_package_id": 3
			}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}
}

func TestListBookingsPassesStatusAndTimeframe(t *testing.T) {
	service := &stubBookingService{
		listResult: []models.Booking{{ID: 5, Status: "confirmed"}},
	}
	app := newBookingTestApp(service, "coach", "9")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=confirmed&timeframe=upcoming", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastRole != "coach" || service.lastActorID != 9 {
		t.Fatalf("expected coach 9, got %q %d", service.lastRole, service.lastActorID)
	}
	if service.lastFilter.Status != "confirmed" || service.lastFilter.Timeframe != "upcoming" {
		t.Fatalf("unexpected filter: %+v", service.lastFilter)
	}
}

func TestListBookingsRejectsBadTimeframe(t *testing.T) {
	service := &stubBookingService{}
	app := newBookingTestApp(service, "member", "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?timeframe=yesterday", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetBookingReturnsNotFound(t *testing.T) {
	service := &stubBookingService{getErr: pgx.ErrNoRows}
	app := newBookingTestApp(service, "member", "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/999", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCancelBookingMapsStateErrors(t *testing.T) {
	service := &stubBookingService{cancelErr: services.ErrInvalidStateTransition}
	app := newBookingTestApp(service, "member", "42")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/31/cancel", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if service.lastBookingID != 31 {
		t.Fatalf("expected booking id 31, got %d", service.lastBookingID)
	}
}

func TestCheckAvailabilityParsesQuery(t *testing.T) {
	service := &stubBookingService{availableResult: true}
	app := newBookingTestApp(service, "member", "42")

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/v1/bookings/availability?coach_id=7&start_time=2030-03-15T09:00:00Z&end_time=2030-03-15T10:00:00Z",
		nil,
	)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastCoachID != 7 {
		t.Fatalf("expected coach id 7, got %d", service.lastCoachID)
	}

	var body struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Available {
		t.Fatal("expected available true")
	}
}

func TestCheckAvailabilityRequiresCoachID(t *testing.T) {
	service := &stubBookingService{}
	app := newBookingTestApp(service, "member", "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/availability", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
