package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
)

type DepartmentService interface {
	Create(ctx context.Context, input dto.CreateDepartmentInput) (*model.Department, error)
	Update(ctx context.Context, id uuid.UUID, input dto.CreateDepartmentInput) (*model.Department, error)
	List(ctx context.Context) ([]*model.Department, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type departmentService struct {
	repo repository.DepartmentRepository
}

func NewDepartmentService(repo repository.DepartmentRepository) DepartmentService {
	return &departmentService{repo: repo}
}

func (s *departmentService) Create(ctx context.Context, input dto.CreateDepartmentInput) (*model.Department, error) {
	existing, _ := s.repo.FindByName(ctx, input.Name)
	if existing != nil {
		return nil, fmt.Errorf("department %s already exists", input.Name)
	}

	department := &model.Department{Name: input.Name}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, err
	}

	return department, nil
}

func (s *departmentService) Update(ctx context.Context, id uuid.UUID, input dto.CreateDepartmentInput) (*model.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	department.Name = input.Name
	if err := s.repo.Update(ctx, department); err != nil {
		return nil, err
	}

	return department, nil
}

func (s *departmentService) List(ctx context.Context) ([]*model.Department, error) {
	return s.repo.FindAll(ctx)
}

func (s *departmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, id)
}
