package service_test

import (
	"context"

	"iuran-rt-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockResidentRepo
type MockResidentRepo struct {
	mock.Mock
}

func (m *MockResidentRepo) Create(ctx context.Context, res *domain.Resident) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockResidentRepo) GetByID(ctx context.Context, id int32) (*domain.Resident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resident), args.Error(1)
}
func (m *MockResidentRepo) Update(ctx context.Context, res *domain.Resident) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockResidentRepo) Deactivate(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockResidentRepo) SetVerification(ctx context.Context, id int32, state domain.VerificationState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}
func (m *MockResidentRepo) ListActive(ctx context.Context) ([]domain.Resident, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Resident), args.Error(1)
}
func (m *MockResidentRepo) ListByVerification(ctx context.Context, state domain.VerificationState) ([]domain.Resident, error) {
	args := m.Called(ctx, state)
	return args.Get(0).([]domain.Resident), args.Error(1)
}
func (m *MockResidentRepo) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockResidentRepo) ListActiveWithoutInvoice(ctx context.Context, period domain.Period) ([]domain.Resident, error) {
	args := m.Called(ctx, period)
	return args.Get(0).([]domain.Resident), args.Error(1)
}
func (m *MockResidentRepo) GetArrearsTotals(ctx context.Context, residentID int32) (*domain.ArrearsTotals, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArrearsTotals), args.Error(1)
}
func (m *MockResidentRepo) ListActiveArrearsTotals(ctx context.Context) ([]domain.ArrearsTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ArrearsTotals), args.Error(1)
}

// MockDueTypeRepo
type MockDueTypeRepo struct {
	mock.Mock
}

func (m *MockDueTypeRepo) Create(ctx context.Context, d *domain.DueType) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDueTypeRepo) GetByID(ctx context.Context, id int32) (*domain.DueType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DueType), args.Error(1)
}
func (m *MockDueTypeRepo) Update(ctx context.Context, d *domain.DueType) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDueTypeRepo) Deactivate(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockDueTypeRepo) ListActive(ctx context.Context) ([]domain.DueType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.DueType), args.Error(1)
}
