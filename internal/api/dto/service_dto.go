package dto

import "time"

// SalonServiceRequest payload for create/update.
type SalonServiceRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceYen        int    `json:"price_yen"`
	Active          *bool  `json:"active"`
}

// SalonServiceResponse response.
type SalonServiceResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceYen        int       `json:"price_yen"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
