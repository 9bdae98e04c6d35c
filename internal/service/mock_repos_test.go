package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // keyed by id and "email:"+email
	roles map[string]*model.Role
}

func newMockUserRepo() *mockUserRepo {
	repo := &mockUserRepo{
		users: make(map[string]*model.User),
		roles: make(map[string]*model.Role),
	}
	for i, name := range []string{model.RoleAdmin, model.RoleDepartmentHead, model.RoleUser, model.RoleGuest} {
		repo.roles[name] = &model.Role{ID: uint(i + 1), Name: name}
	}
	return repo
}

func (m *mockUserRepo) index(user *model.User) {
	if user.RoleID != nil {
		for _, role := range m.roles {
			if role.ID == *user.RoleID {
				user.Role = *role
			}
		}
	}
	m.users[user.ID.String()] = user
	m.users["email:"+user.Email] = user
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.index(user)
	return nil
}

// cloneUser mirrors a database fetch: callers get their own copy, so
// mutating a result never changes the stored row.
func cloneUser(u *model.User) *model.User {
	c := *u
	return &c
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users["email:"+email]; ok {
		return cloneUser(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindRoleByName(_ context.Context, name string) (*model.Role, error) {
	if r, ok := m.roles[name]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.index(user)
	return nil
}

func (m *mockUserRepo) SetApproved(_ context.Context, id uuid.UUID, approved bool) error {
	u, ok := m.users[id.String()]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Approved = &approved
	return nil
}

func (m *mockUserRepo) FindAll(_ context.Context, roleName string, departmentID *uuid.UUID, offset, limit int) ([]*model.User, int64, error) {
	var result []*model.User
	seen := make(map[uuid.UUID]bool)
	for _, u := range m.users {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		if roleName != "" && u.Role.Name != roleName {
			continue
		}
		if departmentID != nil && (u.DepartmentID == nil || *u.DepartmentID != *departmentID) {
			continue
		}
		result = append(result, cloneUser(u))
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) FindPendingDepartmentHeads(_ context.Context) ([]*model.User, error) {
	var result []*model.User
	seen := make(map[uuid.UUID]bool)
	for _, u := range m.users {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		if u.Role.Name == model.RoleDepartmentHead && u.Approved != nil && !*u.Approved {
			result = append(result, cloneUser(u))
		}
	}
	return result, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	delete(m.users, id)
	delete(m.users, "email:"+u.Email)
	return nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	seen := make(map[uuid.UUID]bool)
	for _, u := range m.users {
		seen[u.ID] = true
	}
	return int64(len(seen)), nil
}

// ── Mock ResetTokenRepository ──

type mockResetTokenRepo struct {
	tokens     map[string]*model.PasswordResetToken // keyed by token hash
	users      *mockUserRepo
	failCreate bool
}

func newMockResetTokenRepo(users *mockUserRepo) *mockResetTokenRepo {
	return &mockResetTokenRepo{
		tokens: make(map[string]*model.PasswordResetToken),
		users:  users,
	}
}

func (m *mockResetTokenRepo) Create(_ context.Context, token *model.PasswordResetToken) error {
	if m.failCreate {
		return errors.New("insert failed")
	}
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockResetTokenRepo) FindActiveByHash(_ context.Context, tokenHash string, now time.Time) (*model.PasswordResetToken, error) {
	t, ok := m.tokens[tokenHash]
	if !ok || t.Used || !t.ExpiresAt.After(now) {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (m *mockResetTokenRepo) Redeem(_ context.Context, tokenHash, newPasswordHash string, now time.Time) error {
	t, ok := m.tokens[tokenHash]
	if !ok || t.Used || !t.ExpiresAt.After(now) {
		return gorm.ErrRecordNotFound
	}
	t.Used = true
	if u, ok := m.users.users[t.UserID.String()]; ok {
		u.PasswordHash = newPasswordHash
	}
	return nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[uuid.UUID]*model.Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[uuid.UUID]*model.Department)}
}

func (m *mockDepartmentRepo) Create(_ context.Context, department *model.Department) error {
	if department.ID == uuid.Nil {
		department.ID = uuid.New()
	}
	m.departments[department.ID] = department
	return nil
}

func (m *mockDepartmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) FindByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) FindAll(_ context.Context) ([]*model.Department, error) {
	var result []*model.Department
	for _, d := range m.departments {
		result = append(result, d)
	}
	return result, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, department *model.Department) error {
	m.departments[department.ID] = department
	return nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.departments, id)
	return nil
}

// ── Mock ResearchRepository ──

type mockResearchRepo struct {
	items map[uuid.UUID]*model.Research
}

func newMockResearchRepo() *mockResearchRepo {
	return &mockResearchRepo{items: make(map[uuid.UUID]*model.Research)}
}

func (m *mockResearchRepo) Create(_ context.Context, research *model.Research) error {
	if research.ID == uuid.Nil {
		research.ID = uuid.New()
	}
	m.items[research.ID] = research
	return nil
}

func (m *mockResearchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Research, error) {
	if r, ok := m.items[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResearchRepo) FindAll(_ context.Context, departmentID *uuid.UUID, resType string, year int, accessLevels []string, search, sortBy string, offset, limit int) ([]*model.Research, int64, error) {
	var result []*model.Research
	for _, r := range m.items {
		if departmentID != nil && r.DepartmentID != *departmentID {
			continue
		}
		if resType != "" && r.Type != resType {
			continue
		}
		if year != 0 && r.Year != year {
			continue
		}
		if len(accessLevels) > 0 {
			match := false
			for _, level := range accessLevels {
				if r.AccessLevel == level {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(search)) {
			continue
		}
		result = append(result, r)
	}
	return result, int64(len(result)), nil
}

func (m *mockResearchRepo) Update(_ context.Context, research *model.Research) error {
	if _, ok := m.items[research.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.items[research.ID] = research
	return nil
}

func (m *mockResearchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockResearchRepo) AddDownloads(_ context.Context, id uuid.UUID, delta int) error {
	r, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Downloads += delta
	return nil
}

func (m *mockResearchRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *mockResearchRepo) CountByDepartment(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, r := range m.items {
		result[r.Department.Name]++
	}
	return result, nil
}

// ── Mock CommentRepository ──

type mockCommentRepo struct {
	comments []*model.Comment
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{}
}

func (m *mockCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	m.comments = append(m.comments, comment)
	return nil
}

func (m *mockCommentRepo) FindByResearchID(_ context.Context, researchID uuid.UUID, offset, limit int) ([]*model.Comment, int64, error) {
	var result []*model.Comment
	for _, c := range m.comments {
		if c.ResearchID == researchID {
			result = append(result, c)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockCommentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.comments)), nil
}

// ── Mock BookmarkRepository ──

type mockBookmarkRepo struct {
	bookmarks map[string]*model.Bookmark // keyed by userID+researchID
}

func newMockBookmarkRepo() *mockBookmarkRepo {
	return &mockBookmarkRepo{bookmarks: make(map[string]*model.Bookmark)}
}

func bookmarkKey(userID, researchID uuid.UUID) string {
	return userID.String() + ":" + researchID.String()
}

func (m *mockBookmarkRepo) Create(_ context.Context, bookmark *model.Bookmark) error {
	if bookmark.ID == uuid.Nil {
		bookmark.ID = uuid.New()
	}
	m.bookmarks[bookmarkKey(bookmark.UserID, bookmark.ResearchID)] = bookmark
	return nil
}

func (m *mockBookmarkRepo) Delete(_ context.Context, userID, researchID uuid.UUID) error {
	key := bookmarkKey(userID, researchID)
	if _, ok := m.bookmarks[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.bookmarks, key)
	return nil
}

func (m *mockBookmarkRepo) Exists(_ context.Context, userID, researchID uuid.UUID) (bool, error) {
	_, ok := m.bookmarks[bookmarkKey(userID, researchID)]
	return ok, nil
}

func (m *mockBookmarkRepo) FindByUserID(_ context.Context, userID uuid.UUID, offset, limit int) ([]*model.Bookmark, int64, error) {
	var result []*model.Bookmark
	for _, b := range m.bookmarks {
		if b.UserID == userID {
			result = append(result, b)
		}
	}
	return result, int64(len(result)), nil
}

// ── Mock DownloadRepository ──

type mockDownloadRepo struct {
	events []*model.Download
}

func newMockDownloadRepo() *mockDownloadRepo {
	return &mockDownloadRepo{}
}

func (m *mockDownloadRepo) Create(_ context.Context, download *model.Download) error {
	m.events = append(m.events, download)
	return nil
}

func (m *mockDownloadRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.events)), nil
}

// ── Mock DocumentStorage ──

type mockDocStorage struct {
	objects map[string][]byte
	removed []string
}

func newMockDocStorage() *mockDocStorage {
	return &mockDocStorage{objects: make(map[string][]byte)}
}

func (m *mockDocStorage) Upload(_ context.Context, path string, r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects[path] = data
	return m.PublicURL(path), nil
}

func (m *mockDocStorage) Remove(_ context.Context, path string) error {
	delete(m.objects, path)
	m.removed = append(m.removed, path)
	return nil
}

func (m *mockDocStorage) PublicURL(path string) string {
	return "https://storage.test/public/" + path
}

func (m *mockDocStorage) SignedURL(path string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/sign/%s?exp=%d", path, int(ttl.Seconds())), nil
}

// ── Mock Mailer ──

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type mockMailer struct {
	sent []sentMail
	fail bool
}

func (m *mockMailer) Send(to, subject, body string) error {
	if m.fail {
		return fmt.Errorf("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// ── Fake RateLimiter ──

type fakeRateLimiter struct {
	keys map[string]struct{}
}

func newFakeRateLimiter() *fakeRateLimiter {
	return &fakeRateLimiter{keys: make(map[string]struct{})}
}

func (f *fakeRateLimiter) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) *redis.BoolCmd {
	if _, held := f.keys[key]; held {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = struct{}{}
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRateLimiter) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, held := f.keys[key]; held {
			delete(f.keys, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}
