package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Dosada05/matchday-system/models"
	"github.com/Dosada05/matchday-system/repositories"
	"github.com/Dosada05/matchday-system/storage"
)

type UpdateUserInput struct {
	FirstName       *string                `json:"first_name"`
	LastName        *string                `json:"last_name"`
	PhoneNumber     *string                `json:"phone_number"`
	PrimaryPosition *models.PlayerPosition `json:"primary_position"`
	PreferredFoot   *string                `json:"preferred_foot"`
	IsPlaying       *bool                  `json:"is_playing"`
}

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	Update(ctx context.Context, requesterID, id int, input UpdateUserInput) (*models.User, error)
	UploadLogo(ctx context.Context, requesterID, id int, contentType string, reader io.Reader) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader) UserService {
	return &userService{userRepo: userRepo, uploader: uploader}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	populateUserDetails(user, s.uploader)
	return user, nil
}

func (s *userService) Update(ctx context.Context, requesterID, id int, input UpdateUserInput) (*models.User, error) {
	if requesterID != id {
		return nil, ErrForbiddenOperation
	}
	user, err := s.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.FirstName != nil {
		if strings.TrimSpace(*input.FirstName) == "" {
			return nil, fmt.Errorf("%w: first name cannot be empty", ErrValidationFailed)
		}
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.PrimaryPosition != nil {
		user.PrimaryPosition = input.PrimaryPosition
	}
	if input.PreferredFoot != nil {
		user.PreferredFoot = input.PreferredFoot
	}
	if input.IsPlaying != nil {
		user.IsPlaying = *input.IsPlaying
	}

	if err := s.userRepo.Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	populateUserDetails(user, s.uploader)
	return user, nil
}

func (s *userService) UploadLogo(ctx context.Context, requesterID, id int, contentType string, reader io.Reader) (*models.User, error) {
	if requesterID != id {
		return nil, ErrForbiddenOperation
	}
	user, err := s.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("users/%d/avatar_%d%s", id, time.Now().UnixNano(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload user avatar: %w", err)
	}

	oldKey := user.LogoKey
	user.LogoKey = &result.Key
	if err := s.userRepo.Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to persist avatar key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	populateUserDetails(user, s.uploader)
	return user, nil
}

func extensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	}
	return "", fmt.Errorf("unsupported image content type %q", contentType)
}
