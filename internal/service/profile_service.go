package service

import (
	"context"
	"errors"
	"io"
	"log"

	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
	"github.com/terzahh/samara-repository-sub000/pkg/storage"
)

// AvatarFile represents an uploaded avatar image.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*model.User, error)
	Update(ctx context.Context, userID string, input dto.UpdateProfileInput, avatar *AvatarFile) (*model.User, error)
}

type profileService struct {
	users  repository.UserRepository
	images storage.ImageStorage
}

func NewProfileService(users repository.UserRepository, images storage.ImageStorage) ProfileService {
	return &profileService{users: users, images: images}
}

func (s *profileService) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) Update(ctx context.Context, userID string, input dto.UpdateProfileInput, avatar *AvatarFile) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}

	if avatar != nil && avatar.Reader != nil && s.images != nil {
		url, err := s.images.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}

		if user.AvatarURL != nil {
			if err := s.images.DeleteImage(ctx, *user.AvatarURL); err != nil {
				log.Printf("failed to delete previous avatar: %v", err)
			}
		}

		user.AvatarURL = &url
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}
