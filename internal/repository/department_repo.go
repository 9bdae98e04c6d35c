package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

type DepartmentRepository interface {
	Create(ctx context.Context, department *model.Department) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Department, error)
	FindByName(ctx context.Context, name string) (*model.Department, error)
	FindAll(ctx context.Context) ([]*model.Department, error)
	Update(ctx context.Context, department *model.Department) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type departmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, department *model.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *departmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	var department model.Department
	if err := r.db.WithContext(ctx).First(&department, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) FindByName(ctx context.Context, name string) (*model.Department, error) {
	var department model.Department
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&department).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) FindAll(ctx context.Context) ([]*model.Department, error) {
	var departments []*model.Department
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *departmentRepository) Update(ctx context.Context, department *model.Department) error {
	return r.db.WithContext(ctx).Save(department).Error
}

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Department{}, "id = ?", id).Error
}
