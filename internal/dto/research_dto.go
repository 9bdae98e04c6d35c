package dto

import (
	"github.com/terzahh/samara-repository-sub000/internal/model"
)

type UploadResearchInput struct {
	Title        string `form:"title" binding:"required,max=255"`
	Author       string `form:"author" binding:"required,max=255"`
	DepartmentID string `form:"department_id" binding:"required,uuid"`
	Type         string `form:"type" binding:"required,oneof=thesis dissertation paper"`
	Year         int    `form:"year" binding:"required,min=1900,max=2100"`
	Abstract     string `form:"abstract"`
	Keywords     string `form:"keywords"`
	AccessLevel  string `form:"access_level" binding:"omitempty,oneof=public restricted"`
}

type UpdateResearchInput struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Author      *string `json:"author" binding:"omitempty,max=255"`
	Type        *string `json:"type" binding:"omitempty,oneof=thesis dissertation paper"`
	Year        *int    `json:"year" binding:"omitempty,min=1900,max=2100"`
	Abstract    *string `json:"abstract"`
	Keywords    *string `json:"keywords"`
	AccessLevel *string `json:"access_level" binding:"omitempty,oneof=public restricted"`
}

type ResearchFilter struct {
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Type         string `form:"type" binding:"omitempty,oneof=thesis dissertation paper"`
	Year         int    `form:"year"`
	AccessLevel  string `form:"access_level" binding:"omitempty,oneof=public restricted"`
	Search       string `form:"search"`
	SortBy       string `form:"sort_by" binding:"omitempty,oneof=newest popular"`
	Page         int    `form:"page,default=1" binding:"min=1"`
	Limit        int    `form:"limit,default=10" binding:"min=1,max=50"`
}

type PaginatedResearchResponse struct {
	Data []*model.Research `json:"data"`
	Meta PaginationMeta    `json:"meta"`
}

type DownloadLinkResponse struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in,omitempty"`
}

type CreateCommentInput struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

type PaginatedCommentResponse struct {
	Data []*model.Comment `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}

type PaginatedBookmarkResponse struct {
	Data []*model.Bookmark `json:"data"`
	Meta PaginationMeta    `json:"meta"`
}

type SearchQuery struct {
	Query        string `form:"q" binding:"required"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Type         string `form:"type" binding:"omitempty,oneof=thesis dissertation paper"`
	Year         int    `form:"year"`
	Limit        int    `form:"limit,default=10" binding:"min=1,max=50"`
	// AccessLevel is set server-side to scope what guests can see.
	AccessLevel string `form:"-"`
}
