package service

import (
	"context"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
)

type announcementService struct {
	announcementRepo repository.AnnouncementRepository
}

func NewAnnouncementService(announcementRepo repository.AnnouncementRepository) AnnouncementService {
	return &announcementService{announcementRepo: announcementRepo}
}

func (s *announcementService) List(ctx context.Context) ([]domain.Announcement, error) {
	list, err := s.announcementRepo.List(ctx, 0)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list announcements", err)
	}
	return list, nil
}

func (s *announcementService) Get(ctx context.Context, id int32) (*domain.Announcement, error) {
	a, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load announcement", err)
	}
	return a, nil
}

func (s *announcementService) Publish(ctx context.Context, a *domain.Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.announcementRepo.Create(ctx, a); err != nil {
		return domain.NewPersistenceError("failed to publish announcement", err)
	}
	logger.Info("Announcement published", "announcementID", a.ID, "createdBy", a.CreatedBy)
	return nil
}

func (s *announcementService) Update(ctx context.Context, a *domain.Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.announcementRepo.Update(ctx, a); err != nil {
		return domain.NewPersistenceError("failed to update announcement", err)
	}
	return nil
}

func (s *announcementService) Delete(ctx context.Context, id int32) error {
	if err := s.announcementRepo.Delete(ctx, id); err != nil {
		return domain.NewPersistenceError("failed to delete announcement", err)
	}
	return nil
}
