package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/service"
	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
	"github.com/terzahh/samara-repository-sub000/pkg/response"
	"github.com/terzahh/samara-repository-sub000/pkg/validator"
)

type ResearchHandler struct {
	researchService service.ResearchService
	searchService   service.SearchService
}

func NewResearchHandler(researchService service.ResearchService, searchService service.SearchService) *ResearchHandler {
	return &ResearchHandler{
		researchService: researchService,
		searchService:   searchService,
	}
}

// currentUser returns the full user record attached by the auth middleware.
func currentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

func (h *ResearchHandler) Upload(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	var input dto.UploadResearchInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	research, err := h.researchService.Upload(c.Request.Context(), user, input, file)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, research)
}

func (h *ResearchHandler) List(c *gin.Context) {
	var filter dto.ResearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	// Guests only see public entries; signed-in users see everything.
	if response.OptionalUserID(c) == uuid.Nil {
		filter.AccessLevel = model.AccessPublic
	}

	res, err := h.researchService.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ResearchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid research id"})
		return
	}

	research, err := h.researchService.Get(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if research.AccessLevel == model.AccessRestricted && response.OptionalUserID(c) == uuid.Nil {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, research)
}

func (h *ResearchHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid research id"})
		return
	}

	var input dto.UpdateResearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	research, err := h.researchService.Update(c.Request.Context(), id, user, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, research)
}

func (h *ResearchHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid research id"})
		return
	}

	if err := h.researchService.Delete(c.Request.Context(), id, user); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ResearchHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid research id"})
		return
	}

	res, err := h.researchService.DownloadLink(c.Request.Context(), id, response.OptionalUserID(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ResearchHandler) Search(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if h.searchService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	if response.OptionalUserID(c) == uuid.Nil {
		query.AccessLevel = model.AccessPublic
	}

	hits, err := h.searchService.Search(query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hits})
}
