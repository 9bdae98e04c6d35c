package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

type ResearchRepository interface {
	Create(ctx context.Context, research *model.Research) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Research, error)
	FindAll(ctx context.Context, departmentID *uuid.UUID, resType string, year int, accessLevels []string, search, sortBy string, offset, limit int) ([]*model.Research, int64, error)
	Update(ctx context.Context, research *model.Research) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddDownloads(ctx context.Context, id uuid.UUID, delta int) error
	Count(ctx context.Context) (int64, error)
	CountByDepartment(ctx context.Context) (map[string]int64, error)
}

type researchRepository struct {
	db *gorm.DB
}

func NewResearchRepository(db *gorm.DB) ResearchRepository {
	return &researchRepository{db: db}
}

func (r *researchRepository) Create(ctx context.Context, research *model.Research) error {
	return r.db.WithContext(ctx).Create(research).Error
}

func (r *researchRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Research, error) {
	var research model.Research
	if err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("UploadedBy").
		Preload("UploadedBy.Role").
		Where("id = ?", id).
		First(&research).Error; err != nil {
		return nil, err
	}

	return &research, nil
}

func (r *researchRepository) FindAll(ctx context.Context, departmentID *uuid.UUID, resType string, year int, accessLevels []string, search, sortBy string, offset, limit int) ([]*model.Research, int64, error) {
	var items []*model.Research
	var total int64

	query := r.db.WithContext(ctx).
		Preload("Department").
		Preload("UploadedBy")

	if departmentID != nil {
		query = query.Where("department_id = ?", departmentID)
	}

	if resType != "" {
		query = query.Where("type = ?", resType)
	}

	if year != 0 {
		query = query.Where("year = ?", year)
	}

	if len(accessLevels) > 0 {
		query = query.Where("access_level IN ?", accessLevels)
	}

	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title ILIKE ? OR author ILIKE ? OR keywords ILIKE ?", like, like, like)
	}

	if err := query.Model(&model.Research{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if sortBy == "popular" {
		query = query.Order("downloads DESC").Order("created_at DESC")
	} else {
		query = query.Order("created_at DESC")
	}

	if err := query.Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *researchRepository) Update(ctx context.Context, research *model.Research) error {
	return r.db.WithContext(ctx).Save(research).Error
}

func (r *researchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Research{}, "id = ?", id).Error
}

func (r *researchRepository) AddDownloads(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&model.Research{}).
		Where("id = ?", id).
		Update("downloads", gorm.Expr("downloads + ?", delta)).Error
}

func (r *researchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Research{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *researchRepository) CountByDepartment(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Name  string
		Total int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&model.Research{}).
		Select("departments.name AS name, COUNT(research.id) AS total").
		Joins("JOIN departments ON departments.id = research.department_id").
		Group("departments.name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Name] = r.Total
	}

	return result, nil
}
