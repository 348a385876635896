package models

import "time"

type Booking struct {
	ID                 int64     `json:"id"`
	MemberID           int64     `json:"member_id"`
	CoachID            int64     `json:"coach_id"`
	ServiceTypeID      int64     `json:"service_type_id"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Status             string    `json:"status"`
	PaymentMethod      string    `json:"payment_method"`
	PurchasedPackageID *int64    `json:"purchased_package_id"`
	AmountPaid         float64   `json:"amount_paid"`
	Notes              *string   `json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ServiceType struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	IsActive        bool   `json:"is_active"`
}
