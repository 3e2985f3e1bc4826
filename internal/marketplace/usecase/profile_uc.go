package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

type ProfileUsecase struct {
	users   domain.UserRepository
	storage domain.Storage
	logger  *logger.Logger
}

func NewProfileUsecase(users domain.UserRepository, storage domain.Storage, log *logger.Logger) *ProfileUsecase {
	return &ProfileUsecase{
		users:   users,
		storage: storage,
		logger:  log,
	}
}

func (uc *ProfileUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Never hand the hash to callers.
	user.PasswordHash = ""
	return user, nil
}

func (uc *ProfileUsecase) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if err := uc.users.UpdateProfile(ctx, userID, update); err != nil {
		uc.logger.Error("failed to update profile", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return uc.GetProfile(ctx, userID)
}

// SetProfileImage uploads the avatar and stores its URL on the user.
func (uc *ProfileUsecase) SetProfileImage(ctx context.Context, userID, filename string, data []byte) (string, error) {
	url, err := uc.storage.Upload(ctx, filename, data)
	if err != nil {
		uc.logger.Error("failed to upload profile image", zap.String("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("upload profile image: %w", err)
	}
	if err := uc.users.SetProfileImageURL(ctx, userID, url); err != nil {
		return "", fmt.Errorf("set profile image: %w", err)
	}
	return url, nil
}
