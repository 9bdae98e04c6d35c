package dto

import (
	"github.com/google/uuid"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterInput struct {
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8"`
	DisplayName  string  `json:"display_name" binding:"required,min=2,max=100"`
	Role         *string `json:"role" binding:"omitempty,oneof=user department_head"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *model.User `json:"user"`
}

// RegisterResponse carries no token when the account needs approval first.
type RegisterResponse struct {
	PendingApproval bool          `json:"pending_approval"`
	Message         string        `json:"message,omitempty"`
	Auth            *AuthResponse `json:"auth,omitempty"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPasswordResponse always reports success; the link is present only in
// development mode and only when the account exists. Its shape never reveals
// whether the email is registered.
type ForgotPasswordResponse struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	ResetLink *string `json:"reset_link,omitempty"`
}

type VerifyResetTokenResponse struct {
	Valid  bool      `json:"valid"`
	Email  string    `json:"email"`
	UserID uuid.UUID `json:"user_id"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
