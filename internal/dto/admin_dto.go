package dto

import "github.com/terzahh/samara-repository-sub000/internal/model"

type CreateUserInput struct {
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8"`
	DisplayName  string  `json:"display_name" binding:"required,min=2,max=100"`
	Role         string  `json:"role" binding:"required,oneof=admin department_head user"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	Approved     *bool   `json:"approved"`
}

type UpdateUserInput struct {
	DisplayName  *string `json:"display_name" binding:"omitempty,min=2,max=100"`
	Role         *string `json:"role" binding:"omitempty,oneof=admin department_head user"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	Approved     *bool   `json:"approved"`
}

type UserFilter struct {
	Role         string `form:"role" binding:"omitempty,oneof=admin department_head user"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Page         int    `form:"page,default=1" binding:"min=1"`
	Limit        int    `form:"limit,default=10" binding:"min=1,max=50"`
}

type PaginatedUserResponse struct {
	Data []*model.User  `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type CreateDepartmentInput struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

type StatsResponse struct {
	TotalUsers           int64            `json:"total_users"`
	TotalResearch        int64            `json:"total_research"`
	TotalComments        int64            `json:"total_comments"`
	TotalDownloads       int64            `json:"total_downloads"`
	ResearchByDepartment map[string]int64 `json:"research_by_department"`
}

type UpdateSettingsInput struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

type ContactInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"omitempty,max=255"`
	Message string `json:"message" binding:"required,min=1,max=5000"`
}

type PaginatedContactResponse struct {
	Data []*model.ContactMessage `json:"data"`
	Meta PaginationMeta          `json:"meta"`
}

type UpdateProfileInput struct {
	DisplayName *string `form:"display_name" json:"display_name" binding:"omitempty,min=2,max=100"`
}
