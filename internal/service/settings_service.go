package service

import (
	"context"

	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
)

type SettingsService interface {
	All(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, settings map[string]string) error
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) All(ctx context.Context) (map[string]string, error) {
	settings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}

	return result, nil
}

func (s *settingsService) Update(ctx context.Context, settings map[string]string) error {
	for key, value := range settings {
		if err := s.repo.Upsert(ctx, &model.SystemSetting{Key: key, Value: value}); err != nil {
			return err
		}
	}
	return nil
}
