package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
	"github.com/terzahh/samara-repository-sub000/pkg/mailer"
)

// resetTokenTTL is fixed at issuance and never extended.
const resetTokenTTL = time.Hour

type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) (*dto.ForgotPasswordResponse, error)
	VerifyToken(ctx context.Context, token string) (*dto.VerifyResetTokenResponse, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type passwordResetService struct {
	users     repository.UserRepository
	tokens    repository.ResetTokenRepository
	mail      mailer.Mailer
	rdb       RateLimiter
	baseURL   string
	devMode   bool
	rateLimit time.Duration
}

func NewPasswordResetService(
	users repository.UserRepository,
	tokens repository.ResetTokenRepository,
	mail mailer.Mailer,
	rdb RateLimiter,
	baseURL string,
	devMode bool,
	rateLimit time.Duration,
) PasswordResetService {
	return &passwordResetService{
		users:     users,
		tokens:    tokens,
		mail:      mail,
		rdb:       rdb,
		baseURL:   strings.TrimRight(baseURL, "/"),
		devMode:   devMode,
		rateLimit: rateLimit,
	}
}

// RequestReset always reports success. The response for an unknown address is
// structurally identical to the known-address one, so the endpoint cannot be
// used to enumerate accounts.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) (*dto.ForgotPasswordResponse, error) {
	email = NormalizeEmail(email)

	allowed, err := CheckAndSetRateLimit(ctx, s.rdb, email, "password_reset", s.rateLimit)
	if err != nil {
		log.Printf("reset rate limit check failed: %v", err)
	} else if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	resp := &dto.ForgotPasswordResponse{
		Success: true,
		Message: "if the address is registered, a reset link has been sent",
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		s.rollbackRateLimit(ctx, email)
		return nil, err
	}

	raw, hash, err := generateResetToken()
	if err != nil {
		s.rollbackRateLimit(ctx, email)
		return nil, err
	}

	token := &model.PasswordResetToken{
		TokenHash: hash,
		Email:     email,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		s.rollbackRateLimit(ctx, email)
		return nil, err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, raw)

	if s.mail != nil {
		body := fmt.Sprintf(
			"<p>A password reset was requested for this address.</p>"+
				"<p><a href=%q>Reset your password</a> (the link expires in one hour).</p>"+
				"<p>If you did not request this, you can ignore this message.</p>",
			link,
		)
		if err := s.mail.Send(email, "Password reset", body); err != nil {
			// Still report success: a delivery failure must not leak
			// whether the address exists.
			log.Printf("failed to send reset email: %v", err)
		}
	}

	if s.devMode {
		resp.ResetLink = &link
	}

	return resp, nil
}

// rollbackRateLimit releases the window taken by a request that failed before
// a token was issued, so a transient error does not lock the address out.
func (s *passwordResetService) rollbackRateLimit(ctx context.Context, email string) {
	if err := ClearRateLimit(ctx, s.rdb, email, "password_reset"); err != nil {
		log.Printf("failed to clear reset rate limit: %v", err)
	}
}

func (s *passwordResetService) VerifyToken(ctx context.Context, token string) (*dto.VerifyResetTokenResponse, error) {
	record, err := s.tokens.FindActiveByHash(ctx, hashResetToken(token), time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidOrExpired
		}
		return nil, err
	}

	return &dto.VerifyResetTokenResponse{
		Valid:  true,
		Email:  record.Email,
		UserID: record.UserID,
	}, nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.tokens.Redeem(ctx, hashResetToken(token), string(hashedPassword), time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrInvalidOrExpired
		}
		return err
	}

	return nil
}

// generateResetToken returns a URL-safe random token and the hex digest that
// gets persisted. The raw token is an opaque lookup key; nothing about the
// account can be decoded from it.
func generateResetToken() (raw, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	raw = base64.RawURLEncoding.EncodeToString(buf)
	return raw, hashResetToken(raw), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
