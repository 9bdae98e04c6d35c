package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error)
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	repo     repository.UserRepository
	secret   string
	tokenTTL time.Duration
	// dummyHash is compared against when the email has no row, so both
	// failure paths cost one bcrypt verification.
	dummyHash []byte
}

func NewAuthService(repo repository.UserRepository, secret string, tokenTTL time.Duration) AuthService {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		dummyHash = nil
	}

	return &authService{
		repo:      repo,
		secret:    secret,
		tokenTTL:  tokenTTL,
		dummyHash: dummyHash,
	}
}

// NormalizeEmail lower-cases and trims an address before any lookup, so
// "Jane.Doe@EXAMPLE.com " and "jane.doe@example.com" hit the same row.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	email := NormalizeEmail(input.Email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.dummyHash != nil {
				_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
			}
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if user.Role.Name == model.RoleDepartmentHead && !user.IsApproved() {
		return nil, apperror.ErrPendingApproval
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error) {
	email := NormalizeEmail(input.Email)

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.ErrEmailAlreadyTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	roleName := model.RoleUser
	if input.Role != nil && *input.Role != "" {
		roleName = *input.Role
	}

	role, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s not found", roleName)
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
	}

	if input.DepartmentID != nil && *input.DepartmentID != "" {
		departmentID, err := uuid.Parse(*input.DepartmentID)
		if err != nil {
			return nil, apperror.ErrInvalidInput
		}
		user.DepartmentID = &departmentID
	}

	// Department heads never self-approve: the account waits for an admin.
	if roleName == model.RoleDepartmentHead {
		if user.DepartmentID == nil {
			return nil, apperror.New(0, "department is required for department heads", apperror.ErrInvalidInput)
		}
		approved := false
		user.Approved = &approved
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if roleName == model.RoleDepartmentHead {
		return &dto.RegisterResponse{
			PendingApproval: true,
			Message:         "registration received, awaiting administrator approval",
		}, nil
	}

	auth, err := s.buildAuthResponse(created)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{Auth: auth}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
	}, nil
}

func (s *authService) generateToken(user *model.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
