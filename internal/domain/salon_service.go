package domain

import "time"

// SalonService is a bookable menu item (cut, color, treatment, ...).
type SalonService struct {
	ID              string
	TenantID        string
	Name            string
	Description     string
	DurationMinutes int
	PriceYen        int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
