package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
)

// CommentService is append-only: comments are never edited or deleted.
type CommentService interface {
	Create(ctx context.Context, userID, researchID uuid.UUID, input dto.CreateCommentInput) (*model.Comment, error)
	ListByResearch(ctx context.Context, researchID uuid.UUID, page dto.PageQuery) (*dto.PaginatedCommentResponse, error)
}

type commentService struct {
	repo     repository.CommentRepository
	research repository.ResearchRepository
}

func NewCommentService(repo repository.CommentRepository, research repository.ResearchRepository) CommentService {
	return &commentService{repo: repo, research: research}
}

func (s *commentService) Create(ctx context.Context, userID, researchID uuid.UUID, input dto.CreateCommentInput) (*model.Comment, error) {
	if _, err := s.research.FindByID(ctx, researchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		ResearchID: researchID,
		UserID:     userID,
		Content:    input.Content,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *commentService) ListByResearch(ctx context.Context, researchID uuid.UUID, page dto.PageQuery) (*dto.PaginatedCommentResponse, error) {
	comments, total, err := s.repo.FindByResearchID(ctx, researchID, page.Offset(), page.Limit)
	if err != nil {
		return nil, err
	}

	for _, c := range comments {
		c.User.PasswordHash = ""
	}

	return &dto.PaginatedCommentResponse{
		Data: comments,
		Meta: dto.NewPaginationMeta(page.Page, page.Limit, total),
	}, nil
}
