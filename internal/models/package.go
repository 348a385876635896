package models

import "time"

type PackageDefinition struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	SessionCount int       `json:"session_count"`
	PriceCents   int64     `json:"price_cents"`
	ValidityDays int       `json:"validity_days"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type PackageInstance struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	PackageID         int64     `json:"package_id"`
	SessionsTotal     int       `json:"sessions_total"`
	SessionsRemaining int       `json:"sessions_remaining"`
	ExpiresAt         time.Time `json:"expires_at"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Usable reports whether the instance can still cover a booking. The stored
// status may lag behind expiry, so expires_at is always checked directly.
func (p *PackageInstance) Usable(now time.Time) bool {
	return p.Status == "active" && p.SessionsRemaining > 0 && p.ExpiresAt.After(now)
}
