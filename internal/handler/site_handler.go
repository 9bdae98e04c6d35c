package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/service"
	"github.com/terzahh/samara-repository-sub000/pkg/response"
	"github.com/terzahh/samara-repository-sub000/pkg/validator"
)

// SiteHandler serves the public site endpoints: settings and the contact form.
type SiteHandler struct {
	settingsService service.SettingsService
	contactService  service.ContactService
}

func NewSiteHandler(settingsService service.SettingsService, contactService service.ContactService) *SiteHandler {
	return &SiteHandler{
		settingsService: settingsService,
		contactService:  contactService,
	}
}

func (h *SiteHandler) Settings(c *gin.Context) {
	settings, err := h.settingsService.All(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}

func (h *SiteHandler) SubmitContact(c *gin.Context) {
	var input dto.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	message, err := h.contactService.Submit(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}
