package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
)

type AdminService interface {
	CreateUser(ctx context.Context, input dto.CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input dto.UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, filter dto.UserFilter) (*dto.PaginatedUserResponse, error)
	ApproveDepartmentHead(ctx context.Context, id uuid.UUID) error
	ListPendingDepartmentHeads(ctx context.Context) ([]*model.User, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

type adminService struct {
	users     repository.UserRepository
	research  repository.ResearchRepository
	comments  repository.CommentRepository
	downloads repository.DownloadRepository
}

func NewAdminService(
	users repository.UserRepository,
	research repository.ResearchRepository,
	comments repository.CommentRepository,
	downloads repository.DownloadRepository,
) AdminService {
	return &adminService{
		users:     users,
		research:  research,
		comments:  comments,
		downloads: downloads,
	}
}

func (s *adminService) CreateUser(ctx context.Context, input dto.CreateUserInput) (*model.User, error) {
	email := NormalizeEmail(input.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.ErrEmailAlreadyTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.users.FindRoleByName(ctx, input.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s not found", input.Role)
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roleID := role.ID
	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  input.DisplayName,
		RoleID:       &roleID,
		Approved:     input.Approved,
	}

	if input.DepartmentID != nil && *input.DepartmentID != "" {
		departmentID, err := uuid.Parse(*input.DepartmentID)
		if err != nil {
			return nil, apperror.ErrInvalidInput
		}
		user.DepartmentID = &departmentID
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	created, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	created.PasswordHash = ""
	return created, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id uuid.UUID, input dto.UpdateUserInput) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}

	if input.Role != nil {
		role, err := s.users.FindRoleByName(ctx, *input.Role)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("role %s not found", *input.Role)
			}
			return nil, err
		}
		roleID := role.ID
		user.RoleID = &roleID
	}

	if input.DepartmentID != nil {
		departmentID, err := uuid.Parse(*input.DepartmentID)
		if err != nil {
			return nil, apperror.ErrInvalidInput
		}
		user.DepartmentID = &departmentID
	}

	if input.Approved != nil {
		user.Approved = input.Approved
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	updated, err := s.users.FindByID(ctx, id.String())
	if err != nil {
		return nil, err
	}

	updated.PasswordHash = ""
	return updated, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, id.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	return s.users.Delete(ctx, id.String())
}

func (s *adminService) ListUsers(ctx context.Context, filter dto.UserFilter) (*dto.PaginatedUserResponse, error) {
	var departmentID *uuid.UUID
	if filter.DepartmentID != "" {
		id, err := uuid.Parse(filter.DepartmentID)
		if err != nil {
			return nil, apperror.ErrInvalidInput
		}
		departmentID = &id
	}

	offset := (filter.Page - 1) * filter.Limit

	users, total, err := s.users.FindAll(ctx, filter.Role, departmentID, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.PasswordHash = ""
	}

	return &dto.PaginatedUserResponse{
		Data: users,
		Meta: dto.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *adminService) ApproveDepartmentHead(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if user.Role.Name != model.RoleDepartmentHead {
		return apperror.New(0, "only department heads require approval", apperror.ErrBadRequest)
	}

	return s.users.SetApproved(ctx, id, true)
}

func (s *adminService) ListPendingDepartmentHeads(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.FindPendingDepartmentHeads(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.PasswordHash = ""
	}

	return users, nil
}

func (s *adminService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalResearch, err := s.research.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalComments, err := s.comments.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalDownloads, err := s.downloads.Count(ctx)
	if err != nil {
		return nil, err
	}

	byDepartment, err := s.research.CountByDepartment(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		TotalUsers:           totalUsers,
		TotalResearch:        totalResearch,
		TotalComments:        totalComments,
		TotalDownloads:       totalDownloads,
		ResearchByDepartment: byDepartment,
	}, nil
}
