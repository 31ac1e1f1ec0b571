package service

import (
	"context"
	"errors"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
)

type residentService struct {
	repos repository.Repositories
	tx    repository.Transactor
}

func NewResidentService(repos repository.Repositories, tx repository.Transactor) ResidentService {
	return &residentService{repos: repos, tx: tx}
}

func (s *residentService) ListActive(ctx context.Context) ([]domain.Resident, error) {
	residents, err := s.repos.Residents.ListActive(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list residents", err)
	}
	return residents, nil
}

func (s *residentService) Get(ctx context.Context, id int32) (*domain.Resident, error) {
	res, err := s.repos.Residents.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load resident", err)
	}
	return res, nil
}

// Register adds a household awaiting verification, together with its members.
func (s *residentService) Register(ctx context.Context, res *domain.Resident, members []domain.HouseholdMember) error {
	logger.EnterMethod("residentService.Register", "houseNumber", res.HouseNumber, "members", len(members))

	if err := res.Validate(); err != nil {
		logger.ExitMethodWithError("residentService.Register", err)
		return err
	}
	for i := range members {
		if err := members[i].Validate(); err != nil {
			logger.ExitMethodWithError("residentService.Register", err)
			return err
		}
	}
	res.Verification = domain.VerificationPending

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return createHousehold(ctx, repos, res, members)
	})
	if err != nil {
		logger.ExitMethodWithError("residentService.Register", err)
		return domain.NewPersistenceError("failed to register resident", err)
	}

	logger.Info("Resident registered", "residentID", res.ID, "houseNumber", res.HouseNumber, "members", len(members))
	logger.ExitMethod("residentService.Register", "residentID", res.ID)
	return nil
}

// createHousehold inserts the resident and then each member under the new resident id.
func createHousehold(ctx context.Context, repos repository.Repositories, res *domain.Resident, members []domain.HouseholdMember) error {
	if err := repos.Residents.Create(ctx, res); err != nil {
		return err
	}
	for i := range members {
		members[i].ResidentID = res.ID
		if err := repos.Households.Create(ctx, &members[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *residentService) Update(ctx context.Context, res *domain.Resident) error {
	if err := res.Validate(); err != nil {
		return err
	}
	if err := s.repos.Residents.Update(ctx, res); err != nil {
		return domain.NewPersistenceError("failed to update resident", err)
	}
	return nil
}

func (s *residentService) Deactivate(ctx context.Context, id int32) error {
	if err := s.repos.Residents.Deactivate(ctx, id); err != nil {
		return domain.NewPersistenceError("failed to deactivate resident", err)
	}
	logger.Info("Resident deactivated", "residentID", id)
	return nil
}

func (s *residentService) ListPendingVerification(ctx context.Context) ([]domain.Resident, error) {
	residents, err := s.repos.Residents.ListByVerification(ctx, domain.VerificationPending)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list residents", err)
	}
	return residents, nil
}

// SetVerification records the admin's decision. A rejected household is deactivated in
// the same transaction so generation and the arrears reports stop counting it.
func (s *residentService) SetVerification(ctx context.Context, id int32, state domain.VerificationState) error {
	if state != domain.VerificationVerified && state != domain.VerificationRejected {
		return domain.NewValidationError("verification must be verified or rejected")
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Residents.SetVerification(ctx, id, state); err != nil {
			return err
		}
		if state == domain.VerificationRejected {
			return repos.Residents.Deactivate(ctx, id)
		}
		return nil
	})
	if err != nil {
		return domain.NewPersistenceError("failed to update verification", err)
	}

	logger.Info("Resident verification updated", "residentID", id, "verification", state)
	return nil
}

func (s *residentService) GetWithFamily(ctx context.Context, id int32) (*domain.ResidentWithFamily, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.ResidentWithFamily{Resident: *res, Members: members, MemberCount: len(members)}, nil
}

func (s *residentService) ListMembers(ctx context.Context, residentID int32) ([]domain.HouseholdMember, error) {
	members, err := s.repos.Households.ListByResident(ctx, residentID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list household members", err)
	}
	return members, nil
}

func (s *residentService) GetMember(ctx context.Context, id int32) (*domain.HouseholdMember, error) {
	m, err := s.repos.Households.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load household member", err)
	}
	return m, nil
}

func (s *residentService) AddMember(ctx context.Context, m *domain.HouseholdMember) error {
	if err := m.Validate(); err != nil {
		return err
	}
	res, err := s.repos.Residents.GetByID(ctx, m.ResidentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError("resident does not exist")
		}
		return domain.NewPersistenceError("failed to load resident", err)
	}
	if !res.Active {
		return domain.NewValidationError("resident is not active")
	}
	if err := s.repos.Households.Create(ctx, m); err != nil {
		return domain.NewPersistenceError("failed to add household member", err)
	}
	return nil
}

// UpdateMember edits a member in place; a member never moves to another household.
func (s *residentService) UpdateMember(ctx context.Context, m *domain.HouseholdMember) error {
	if err := m.Validate(); err != nil {
		return err
	}
	existing, err := s.GetMember(ctx, m.ID)
	if err != nil {
		return err
	}
	m.ResidentID = existing.ResidentID
	m.Active = existing.Active
	m.CreatedAt = existing.CreatedAt
	if err := s.repos.Households.Update(ctx, m); err != nil {
		return domain.NewPersistenceError("failed to update household member", err)
	}
	return nil
}

func (s *residentService) RemoveMember(ctx context.Context, id int32) error {
	if err := s.repos.Households.Deactivate(ctx, id); err != nil {
		return domain.NewPersistenceError("failed to remove household member", err)
	}
	return nil
}
