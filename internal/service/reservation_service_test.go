package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/events"
	"github.com/salonkit/salon-service/internal/repository"
)

type fakeCustomerRepo struct {
	customers map[string]*domain.Customer
	visits    map[string]int
}

func newFakeCustomerRepo(customers ...*domain.Customer) *fakeCustomerRepo {
	repo := &fakeCustomerRepo{customers: map[string]*domain.Customer{}, visits: map[string]int{}}
	for _, customer := range customers {
		repo.customers[customer.ID] = customer
	}
	return repo
}

func (f *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	if customer.ID == "" {
		customer.ID = fmt.Sprintf("customer-%d", len(f.customers)+1)
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	if _, ok := f.customers[customer.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Delete(_ context.Context, _, id string) error {
	if _, ok := f.customers[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Customer, error) {
	customer, ok := f.customers[id]
	if !ok || customer.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	return customer, nil
}

func (f *fakeCustomerRepo) List(_ context.Context, tenantID string, _ repository.CustomerFilter) ([]domain.Customer, error) {
	var result []domain.Customer
	for _, customer := range f.customers {
		if customer.TenantID == tenantID {
			result = append(result, *customer)
		}
	}
	return result, nil
}

func (f *fakeCustomerRepo) RecordVisit(_ context.Context, tenantID, id string) error {
	if _, err := f.GetByID(context.Background(), tenantID, id); err != nil {
		return err
	}
	f.visits[id]++
	return nil
}

type fakeSalonServiceRepo struct {
	services map[string]*domain.SalonService
}

func (f *fakeSalonServiceRepo) Create(_ context.Context, svc *domain.SalonService) error {
	f.services[svc.ID] = svc
	return nil
}

func (f *fakeSalonServiceRepo) Update(_ context.Context, svc *domain.SalonService) error {
	if _, ok := f.services[svc.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.services[svc.ID] = svc
	return nil
}

func (f *fakeSalonServiceRepo) GetByID(_ context.Context, tenantID, id string) (*domain.SalonService, error) {
	svc, ok := f.services[id]
	if !ok || svc.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	return svc, nil
}

func (f *fakeSalonServiceRepo) List(_ context.Context, tenantID string, _ bool, _, _ int) ([]domain.SalonService, error) {
	var result []domain.SalonService
	for _, svc := range f.services {
		if svc.TenantID == tenantID {
			result = append(result, *svc)
		}
	}
	return result, nil
}

type fakeReservationRepo struct {
	reservations map[string]*domain.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: map[string]*domain.Reservation{}}
}

func (f *fakeReservationRepo) Create(_ context.Context, reservation *domain.Reservation) error {
	reservation.ID = fmt.Sprintf("reservation-%d", len(f.reservations)+1)
	copied := *reservation
	f.reservations[reservation.ID] = &copied
	return nil
}

func (f *fakeReservationRepo) Update(_ context.Context, reservation *domain.Reservation) error {
	if _, ok := f.reservations[reservation.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *reservation
	f.reservations[reservation.ID] = &copied
	return nil
}

func (f *fakeReservationRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Reservation, error) {
	reservation, ok := f.reservations[id]
	if !ok || reservation.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	copied := *reservation
	return &copied, nil
}

func (f *fakeReservationRepo) List(_ context.Context, tenantID string, _ repository.ReservationFilter) ([]domain.Reservation, error) {
	var result []domain.Reservation
	for _, reservation := range f.reservations {
		if reservation.TenantID == tenantID {
			result = append(result, *reservation)
		}
	}
	return result, nil
}

func (f *fakeReservationRepo) HasOverlap(_ context.Context, tenantID, staffID string, startsAt, endsAt time.Time, excludeID *string) (bool, error) {
	for _, reservation := range f.reservations {
		if reservation.TenantID != tenantID || reservation.StaffID == nil || *reservation.StaffID != staffID {
			continue
		}
		if excludeID != nil && reservation.ID == *excludeID {
			continue
		}
		if !reservation.Blocking() {
			continue
		}
		if reservation.StartsAt.Before(endsAt) && reservation.EndsAt.After(startsAt) {
			return true, nil
		}
	}
	return false, nil
}

func reservationFixture(t *testing.T) (*ReservationService, *fakeReservationRepo, *fakeCustomerRepo, *domain.StaffAccount) {
	t.Helper()
	actor := &domain.StaffAccount{ID: "staff-1", TenantID: "tenant-1", Role: domain.StaffRoleManager, Active: true}
	customerRepo := newFakeCustomerRepo(&domain.Customer{ID: "customer-1", TenantID: "tenant-1", Name: "Yui"})
	serviceRepo := &fakeSalonServiceRepo{services: map[string]*domain.SalonService{
		"service-1": {ID: "service-1", TenantID: "tenant-1", Name: "Cut", DurationMinutes: 60, Active: true},
		"service-2": {ID: "service-2", TenantID: "tenant-1", Name: "Retired Perm", DurationMinutes: 90, Active: false},
	}}
	staffRepo := newFakeStaffRepo(actor)
	reservationRepo := newFakeReservationRepo()

	svc := NewReservationService(ReservationDependencies{
		ReservationRepo:  reservationRepo,
		CustomerRepo:     customerRepo,
		SalonServiceRepo: serviceRepo,
		StaffRepo:        staffRepo,
		Dispatcher:       events.NewInMemoryDispatcher(),
	})
	return svc, reservationRepo, customerRepo, actor
}

func slot(hoursFromNow, durationMinutes int) (time.Time, time.Time) {
	start := time.Now().Add(time.Duration(hoursFromNow) * time.Hour).Truncate(time.Minute)
	return start, start.Add(time.Duration(durationMinutes) * time.Minute)
}

func TestCreateReservation(t *testing.T) {
	svc, _, _, actor := reservationFixture(t)
	staffID := "staff-1"
	serviceID := "service-1"
	startsAt, endsAt := slot(24, 60)

	reservation, err := svc.CreateReservation(context.Background(), actor, ReservationCreateInput{
		CustomerID: "customer-1",
		StaffID:    &staffID,
		ServiceID:  &serviceID,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if reservation.Status != domain.ReservationStatusPending {
		t.Errorf("status = %q, want PENDING", reservation.Status)
	}
	if reservation.TenantID != "tenant-1" {
		t.Errorf("tenant = %q", reservation.TenantID)
	}
}

func TestCreateReservationRejectsBadTimes(t *testing.T) {
	svc, _, _, actor := reservationFixture(t)
	startsAt, _ := slot(24, 60)

	_, err := svc.CreateReservation(context.Background(), actor, ReservationCreateInput{
		CustomerID: "customer-1",
		StartsAt:   startsAt,
		EndsAt:     startsAt,
	})
	if err == nil {
		t.Fatal("expected error for zero-length slot")
	}
}

func TestCreateReservationRejectsInactiveService(t *testing.T) {
	svc, _, _, actor := reservationFixture(t)
	serviceID := "service-2"
	startsAt, endsAt := slot(24, 90)

	_, err := svc.CreateReservation(context.Background(), actor, ReservationCreateInput{
		CustomerID: "customer-1",
		ServiceID:  &serviceID,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
	})
	if err == nil {
		t.Fatal("expected error for inactive service")
	}
}

func TestCreateReservationDetectsOverlap(t *testing.T) {
	svc, _, _, actor := reservationFixture(t)
	staffID := "staff-1"
	ctx := context.Background()
	startsAt, endsAt := slot(24, 60)

	if _, err := svc.CreateReservation(ctx, actor, ReservationCreateInput{
		CustomerID: "customer-1",
		StaffID:    &staffID,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// Second booking overlaps the middle of the first slot.
	_, err := svc.CreateReservation(ctx, actor, ReservationCreateInput{
		CustomerID: "customer-1",
		StaffID:    &staffID,
		StartsAt:   startsAt.Add(30 * time.Minute),
		EndsAt:     endsAt.Add(30 * time.Minute),
	})
	if err == nil {
		t.Fatal("expected overlap conflict")
	}

	// Back-to-back slots share only the boundary instant and must not clash.
	if _, err := svc.CreateReservation(ctx, actor, ReservationCreateInput{
		CustomerID: "customer-1",
		StaffID:    &staffID,
		StartsAt:   endsAt,
		EndsAt:     endsAt.Add(time.Hour),
	}); err != nil {
		t.Fatalf("adjacent booking: %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, _, customerRepo, actor := reservationFixture(t)
	ctx := context.Background()
	startsAt, endsAt := slot(24, 60)

	reservation, err := svc.CreateReservation(ctx, actor, ReservationCreateInput{
		CustomerID: "customer-1",
		StartsAt:   startsAt,
		EndsAt:     endsAt,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	// PENDING cannot jump straight to COMPLETED.
	if _, err := svc.UpdateStatus(ctx, actor, reservation.ID, domain.ReservationStatusCompleted); err == nil {
		t.Fatal("expected illegal transition error")
	}

	if _, err := svc.UpdateStatus(ctx, actor, reservation.ID, domain.ReservationStatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, actor, reservation.ID, domain.ReservationStatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if customerRepo.visits["customer-1"] != 1 {
		t.Errorf("visit count = %d, want 1", customerRepo.visits["customer-1"])
	}

	// Terminal states accept no further transitions.
	if _, err := svc.UpdateStatus(ctx, actor, reservation.ID, domain.ReservationStatusCancelled); err == nil {
		t.Fatal("expected error transitioning out of COMPLETED")
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _, actor := reservationFixture(t)
	if _, err := svc.UpdateStatus(context.Background(), actor, "reservation-1", "ARRIVED"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestCancelledSlotFreesStaff(t *testing.T) {
	svc, _, _, actor := reservationFixture(t)
	staffID := "staff-1"
	ctx := context.Background()
	startsAt, endsAt := slot(24, 60)

	reservation, err := svc.CreateReservation(ctx, actor, ReservationCreateInput{
		CustomerID: "customer-1",
		StaffID:    &staffID,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, actor, reservation.ID, domain.ReservationStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := svc.CreateReservation(ctx, actor, ReservationCreateInput{
		CustomerID: "customer-1",
		StaffID:    &staffID,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
	}); err != nil {
		t.Fatalf("rebooking cancelled slot: %v", err)
	}
}

func TestGetReservationCrossTenantHidden(t *testing.T) {
	svc, reservationRepo, _, actor := reservationFixture(t)
	startsAt, endsAt := slot(24, 60)
	reservationRepo.reservations["foreign-1"] = &domain.Reservation{
		ID: "foreign-1", TenantID: "tenant-2", CustomerID: "other",
		StartsAt: startsAt, EndsAt: endsAt, Status: domain.ReservationStatusPending,
	}

	if _, err := svc.GetReservation(context.Background(), actor, "foreign-1"); err == nil {
		t.Fatal("expected not-found for cross-tenant reservation")
	}
}
