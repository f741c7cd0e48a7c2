package dto

import "time"

// CustomerRequest payload for create/update.
type CustomerRequest struct {
	Name  string `json:"name"`
	Kana  string `json:"kana"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// CustomerResponse response.
type CustomerResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Kana        string     `json:"kana"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Notes       string     `json:"notes"`
	VisitCount  int        `json:"visit_count"`
	LastVisitAt *time.Time `json:"last_visit_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
