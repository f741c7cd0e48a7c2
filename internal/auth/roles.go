package auth

import "github.com/salonkit/salon-service/internal/domain"

// Resource names a protected resource class.
type Resource string

const (
	ResourceCustomers    Resource = "customers"
	ResourceReservations Resource = "reservations"
	ResourceServices     Resource = "services"
	ResourceMessages     Resource = "messages"
	ResourceStaff        Resource = "staff"
	ResourceAnalytics    Resource = "analytics"
	ResourceSettings     Resource = "settings"
)

// Action is the kind of access requested on a resource.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

type permission struct {
	resource Resource
	action   Action
}

var managerPermissions = map[permission]struct{}{
	{ResourceCustomers, ActionRead}:     {},
	{ResourceCustomers, ActionWrite}:    {},
	{ResourceReservations, ActionRead}:  {},
	{ResourceReservations, ActionWrite}: {},
	{ResourceServices, ActionRead}:      {},
	{ResourceServices, ActionWrite}:     {},
	{ResourceMessages, ActionRead}:      {},
	{ResourceMessages, ActionWrite}:     {},
	{ResourceStaff, ActionRead}:         {},
	{ResourceAnalytics, ActionRead}:     {},
	{ResourceSettings, ActionRead}:      {},
}

var staffPermissions = map[permission]struct{}{
	{ResourceCustomers, ActionRead}:     {},
	{ResourceCustomers, ActionWrite}:    {},
	{ResourceReservations, ActionRead}:  {},
	{ResourceReservations, ActionWrite}: {},
	{ResourceMessages, ActionRead}:      {},
	{ResourceMessages, ActionWrite}:     {},
	{ResourceServices, ActionRead}:      {},
	{ResourceAnalytics, ActionRead}:     {},
	{ResourceSettings, ActionRead}:      {},
}

// Allowed reports whether the role may perform action on resource. The role
// switch is exhaustive over the closed enum; an unknown role has no
// permissions.
func Allowed(role domain.StaffRole, resource Resource, action Action) bool {
	switch role {
	case domain.StaffRoleAdmin:
		return true
	case domain.StaffRoleManager:
		_, ok := managerPermissions[permission{resource, action}]
		return ok
	case domain.StaffRoleStaff:
		_, ok := staffPermissions[permission{resource, action}]
		return ok
	}
	return false
}
