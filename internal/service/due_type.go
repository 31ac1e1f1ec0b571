package service

import (
	"context"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/repository"
)

type dueTypeService struct {
	dueTypeRepo repository.DueTypeRepository
}

func NewDueTypeService(dueTypeRepo repository.DueTypeRepository) DueTypeService {
	return &dueTypeService{dueTypeRepo: dueTypeRepo}
}

func (s *dueTypeService) ListActive(ctx context.Context) ([]domain.DueType, error) {
	dueTypes, err := s.dueTypeRepo.ListActive(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list due types", err)
	}
	return dueTypes, nil
}

func (s *dueTypeService) Get(ctx context.Context, id int32) (*domain.DueType, error) {
	d, err := s.dueTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load due type", err)
	}
	return d, nil
}

func (s *dueTypeService) Create(ctx context.Context, d *domain.DueType) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.dueTypeRepo.Create(ctx, d); err != nil {
		return domain.NewPersistenceError("failed to create due type", err)
	}
	return nil
}

// Update only affects invoices generated afterwards.
func (s *dueTypeService) Update(ctx context.Context, d *domain.DueType) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.dueTypeRepo.Update(ctx, d); err != nil {
		return domain.NewPersistenceError("failed to update due type", err)
	}
	return nil
}

func (s *dueTypeService) Deactivate(ctx context.Context, id int32) error {
	if err := s.dueTypeRepo.Deactivate(ctx, id); err != nil {
		return domain.NewPersistenceError("failed to deactivate due type", err)
	}
	return nil
}

func (s *dueTypeService) StandardTotal(ctx context.Context) (int64, error) {
	dueTypes, err := s.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	return domain.StandardTotal(dueTypes), nil
}
