package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
)

func newAdminFixture(t *testing.T) (*mockUserRepo, AdminService) {
	t.Helper()
	users := newMockUserRepo()
	svc := NewAdminService(users, newMockResearchRepo(), newMockCommentRepo(), newMockDownloadRepo())
	return users, svc
}

func TestApproveDepartmentHead(t *testing.T) {
	users, svc := newAdminFixture(t)
	notApproved := false
	head := seedUser(t, users, "head@example.com", "secret-pass", model.RoleDepartmentHead, &notApproved)

	pending, err := svc.ListPendingDepartmentHeads(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, svc.ApproveDepartmentHead(context.Background(), head.ID))

	require.NotNil(t, head.Approved)
	assert.True(t, *head.Approved)

	pending, err = svc.ListPendingDepartmentHeads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApproveRejectsNonDepartmentHead(t *testing.T) {
	users, svc := newAdminFixture(t)
	member := seedUser(t, users, "member@example.com", "secret-pass", model.RoleUser, nil)

	err := svc.ApproveDepartmentHead(context.Background(), member.ID)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestAdminCreateUserHashesPassword(t *testing.T) {
	users, svc := newAdminFixture(t)

	created, err := svc.CreateUser(context.Background(), dto.CreateUserInput{
		Email:       "Staff@Example.com",
		Password:    "secret-pass",
		DisplayName: "Staff Member",
		Role:        model.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "staff@example.com", created.Email)
	assert.Empty(t, created.PasswordHash)

	stored, err := users.FindByEmail(context.Background(), "staff@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestAdminCreateUserDuplicateEmail(t *testing.T) {
	users, svc := newAdminFixture(t)
	seedUser(t, users, "taken@example.com", "secret-pass", model.RoleUser, nil)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserInput{
		Email:       "taken@example.com",
		Password:    "secret-pass",
		DisplayName: "Dup",
		Role:        model.RoleUser,
	})
	assert.ErrorIs(t, err, apperror.ErrEmailAlreadyTaken)
}
