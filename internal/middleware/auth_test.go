package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
)

const testSecret = "test-secret"

// stubUserRepo implements only the lookup the middleware performs.
type stubUserRepo struct {
	repository.UserRepository
	users map[string]*model.User
}

func (s *stubUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func signToken(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newTestRouter(repo repository.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(repo, testSecret)

	router := gin.New()
	router.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	router.GET("/admin", m.RequireAuth(), m.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/open", m.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return router
}

func seedStubUser(roleName string) (*stubUserRepo, *model.User) {
	user := &model.User{
		ID:          uuid.New(),
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Role:        model.Role{Name: roleName},
	}
	repo := &stubUserRepo{users: map[string]*model.User{user.ID.String(): user}}
	return repo, user
}

func TestRequireAuthMissingToken(t *testing.T) {
	repo, _ := seedStubUser(model.RoleUser)
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthValidToken(t *testing.T) {
	repo, user := seedStubUser(model.RoleUser)
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, user.ID.String(), time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
}

func TestRequireAuthExpiredToken(t *testing.T) {
	repo, user := seedStubUser(model.RoleUser)
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, user.ID.String(), -time.Minute))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A valid token for a deleted account is rejected: the middleware re-fetches
// the user on every request.
func TestRequireAuthDeletedUser(t *testing.T) {
	repo, _ := seedStubUser(model.RoleUser)
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.NewString(), time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminBlocksMembers(t *testing.T) {
	repo, user := seedStubUser(model.RoleUser)
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, user.ID.String(), time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdmins(t *testing.T) {
	repo, user := seedStubUser(model.RoleAdmin)
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, user.ID.String(), time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthStaysSilent(t *testing.T) {
	repo, user := seedStubUser(model.RoleUser)
	router := newTestRouter(repo)

	// No token: request passes through anonymously.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Garbage token: also anonymous rather than an error.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Valid token: identity is attached.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, user.ID.String(), time.Hour))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
}
