package services

import (
	"context"
	"errors"
	"time"

	"github.com/NoelOsiro/tuma-task-api/internal/core/ports"
	"github.com/NoelOsiro/tuma-task-api/internal/domain"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type ProfileService struct {
	repo       ports.ProfileRepository
	storage    ports.StorageService
	refreshTTL time.Duration
	log        *logger.Logger
}

type ProfileServiceConfig struct {
	Repository ports.ProfileRepository
	Storage    ports.StorageService
	RefreshTTL time.Duration
	Logger     *logger.Logger
}

func NewProfileService(cfg ProfileServiceConfig) *ProfileService {
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 5 * time.Minute
	}
	return &ProfileService{
		repo:       cfg.Repository,
		storage:    cfg.Storage,
		refreshTTL: refreshTTL,
		log:        cfg.Logger,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// CompleteOnboarding flips the onboarding flag and merges any profile fields
// supplied alongside it. Empty optional fields are left untouched.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID string, input ports.OnboardingInput) (*domain.Profile, error) {
	fields := map[string]interface{}{
		"onboarding": input.Onboarding,
	}
	if input.FullName != "" {
		fields["full_name"] = input.FullName
	}
	if input.Phone != "" {
		fields["phone"] = input.Phone
	}
	if input.AvatarPath != "" {
		fields["avatar_path"] = input.AvatarPath
	}

	profile, err := s.repo.Update(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	s.log.Infow("profile_onboarding_ok", "user_id", userID, "onboarding", input.Onboarding)
	return profile, nil
}

// AvatarURL resolves the stored avatar_path and signs a fresh URL for it.
// A missing ttl falls back to the refresh default; an explicit ttl is still
// clamped by the signer.
func (s *ProfileService) AvatarURL(ctx context.Context, userID string, ttlSeconds int) (*ports.SignedAvatar, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.AvatarPath == "" {
		return nil, ErrProfileNoAvatar
	}
	if ttlSeconds < 0 {
		ttlSeconds = int(s.refreshTTL / time.Second)
	}
	return s.storage.SignedURL(profile.AvatarPath, ttlSeconds)
}
