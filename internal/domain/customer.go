package domain

import "time"

// Customer is a salon client owned by a single tenant.
type Customer struct {
	ID          string
	TenantID    string
	Name        string
	Kana        string
	Phone       string
	Email       string
	Notes       string
	VisitCount  int
	LastVisitAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
