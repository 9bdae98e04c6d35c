package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/service"
	"github.com/terzahh/samara-repository-sub000/pkg/response"
	"github.com/terzahh/samara-repository-sub000/pkg/validator"
)

type AuthHandler struct {
	authService  service.AuthService
	resetService service.PasswordResetService
}

func NewAuthHandler(authService service.AuthService, resetService service.PasswordResetService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if res.PendingApproval {
		c.JSON(http.StatusAccepted, res)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID.String())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user.PasswordHash = ""
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input dto.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.resetService.RequestReset(c.Request.Context(), input.Email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	res, err := h.resetService.VerifyToken(c.Request.Context(), token)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input dto.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.resetService.ResetPassword(c.Request.Context(), input.Token, input.Password); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password has been reset"})
}
