package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
)

type ContactService interface {
	Submit(ctx context.Context, input dto.ContactInput) (*model.ContactMessage, error)
	List(ctx context.Context, page dto.PageQuery) (*dto.PaginatedContactResponse, error)
	MarkRead(ctx context.Context, id uint) error
}

type contactService struct {
	repo repository.ContactRepository
}

func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo}
}

func (s *contactService) Submit(ctx context.Context, input dto.ContactInput) (*model.ContactMessage, error) {
	message := &model.ContactMessage{
		Name:    input.Name,
		Email:   NormalizeEmail(input.Email),
		Subject: input.Subject,
		Message: input.Message,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

func (s *contactService) List(ctx context.Context, page dto.PageQuery) (*dto.PaginatedContactResponse, error) {
	messages, total, err := s.repo.FindAll(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedContactResponse{
		Data: messages,
		Meta: dto.NewPaginationMeta(page.Page, page.Limit, total),
	}, nil
}

func (s *contactService) MarkRead(ctx context.Context, id uint) error {
	err := s.repo.MarkRead(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}
