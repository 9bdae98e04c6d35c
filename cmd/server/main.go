package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/config"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/server"
	"github.com/terzahh/samara-repository-sub000/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := seedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}

	if cfg.IsDevelopment() {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unavailable, continuing without it: %v", err)
			redisClient = nil
		}
	}

	srv := server.NewServer(cfg, db, redisClient)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.Department{},
		&model.User{},
		&model.Research{},
		&model.Comment{},
		&model.Bookmark{},
		&model.Download{},
		&model.PasswordResetToken{},
		&model.SystemSetting{},
		&model.ContactMessage{},
	)
}

func seedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: model.RoleAdmin, Description: "Super administrator"},
		{Name: model.RoleDepartmentHead, Description: "Department head"},
		{Name: model.RoleUser, Description: "Registered member"},
		{Name: model.RoleGuest, Description: "Unauthenticated visitor"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func seedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@samara.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Email:        "admin@samara.local",
		PasswordHash: string(hashedPasswordBytes),
		DisplayName:  "Administrator",
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded (admin@samara.local / admin123)")

	return nil
}
