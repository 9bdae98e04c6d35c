package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
)

// DownloadService records download events and keeps the per-research counter
// in redis, flushing it to the database in batches.
type DownloadService interface {
	RecordDownload(ctx context.Context, researchID, userID uuid.UUID) error
	StartSyncWorker(ctx context.Context)
}

type downloadService struct {
	redisClient  *redis.Client
	downloads    repository.DownloadRepository
	researchRepo repository.ResearchRepository
}

func NewDownloadService(redisClient *redis.Client, downloads repository.DownloadRepository, researchRepo repository.ResearchRepository) DownloadService {
	return &downloadService{
		redisClient:  redisClient,
		downloads:    downloads,
		researchRepo: researchRepo,
	}
}

// RecordDownload appends a download event and bumps the counter. Repeated
// downloads by the same user within an hour count once. userID may be
// uuid.Nil for guests downloading public documents.
func (s *downloadService) RecordDownload(ctx context.Context, researchID, userID uuid.UUID) error {
	if s.redisClient != nil && userID != uuid.Nil {
		dedupKey := fmt.Sprintf("research:user_download:%s:%s", researchID, userID)

		exists, err := s.redisClient.Exists(ctx, dedupKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check download dedup key: %w", err)
		}
		if exists == 1 {
			return nil
		}

		if _, err := s.redisClient.SetEx(ctx, dedupKey, "downloaded", time.Hour).Result(); err != nil {
			return fmt.Errorf("failed to set download dedup key: %w", err)
		}
	}

	event := &model.Download{ResearchID: researchID}
	if userID != uuid.Nil {
		uid := userID
		event.UserID = &uid
	}
	if err := s.downloads.Create(ctx, event); err != nil {
		return err
	}

	if s.redisClient == nil {
		return s.researchRepo.AddDownloads(ctx, researchID, 1)
	}

	countKey := fmt.Sprintf("research:downloads:%s", researchID)
	if _, err := s.redisClient.Incr(ctx, countKey).Result(); err != nil {
		return fmt.Errorf("failed to increment download counter: %w", err)
	}

	if _, err := s.redisClient.SAdd(ctx, "pending:research_downloads", researchID.String()).Result(); err != nil {
		return fmt.Errorf("failed to add to pending downloads: %w", err)
	}

	return nil
}

func (s *downloadService) syncDownloadsToDB(ctx context.Context) {
	pendingKey := "pending:research_downloads"

	ids, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		log.Printf("Error getting pending download counters: %v", err)
		return
	}

	if len(ids) == 0 {
		return
	}

	for _, idStr := range ids {
		researchID, err := uuid.Parse(idStr)
		if err != nil {
			log.Printf("Invalid research ID in pending set: %s: %v", idStr, err)
			continue
		}

		countKey := fmt.Sprintf("research:downloads:%s", researchID)
		countStr, err := s.redisClient.Get(ctx, countKey).Result()
		if err != nil && err != redis.Nil {
			log.Printf("Error getting download counter for %s: %v", researchID, err)
			continue
		}

		var count int
		fmt.Sscanf(countStr, "%d", &count)
		if count == 0 {
			continue
		}

		if err := s.researchRepo.AddDownloads(ctx, researchID, count); err != nil {
			log.Printf("Failed to flush download counter for %s: %v", researchID, err)
			continue
		}

		if _, err := s.redisClient.Del(ctx, countKey).Result(); err != nil {
			log.Printf("Failed to reset download counter for %s: %v", researchID, err)
		}
	}

	if _, err := s.redisClient.Del(ctx, pendingKey).Result(); err != nil {
		log.Printf("Failed to clear pending download set: %v", err)
	}
}

func (s *downloadService) StartSyncWorker(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncDownloadsToDB(ctx)
		case <-ctx.Done():
			return
		}
	}
}
