package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermercado/backend/internal/application/identity"
	"github.com/supermercado/backend/internal/infrastructure/auth"
	"github.com/supermercado/backend/internal/infrastructure/config"
	"github.com/supermercado/backend/internal/interfaces/http/handler"
	"github.com/supermercado/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	r.Register(NewDomainGroup("test", "/test").GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	}))
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			order = append(order, name)
			c.Next()
		}
	}

	group := NewDomainGroup("catalog", "/Productos").
		Use(mark("group")).
		DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) }).
		Mount(RegistrarFunc(func(rg *gin.RouterGroup) {
			rg.GET("/mounted", mark("mounted"), func(c *gin.Context) { c.Status(http.StatusOK) })
		}))
	assert.Equal(t, "catalog", group.Name())
	assert.Equal(t, "/Productos", group.Prefix())

	engine := gin.New()
	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/Productos/mounted", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"group", "mounted"}, order)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/Productos/1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

type stubAuth struct{}

func (stubAuth) Login(context.Context, identity.LoginRequest) (*identity.LoginResponse, error) {
	return &identity.LoginResponse{AccessToken: "tok"}, nil
}

func (stubAuth) Logout(context.Context, string, time.Duration) error { return nil }

func (stubAuth) Me(_ context.Context, id uuid.UUID) (*identity.CurrentUserResponse, error) {
	return &identity.CurrentUserResponse{ID: id}, nil
}

// stubCRUD answers 200 on every route so only the guards decide
type stubCRUD struct{}

func (stubCRUD) Register(g *gin.RouterGroup, guards ...gin.HandlerFunc) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	g.GET("", ok)
	g.POST("", append(guards, ok)...)
}

type apiFixture struct {
	engine *gin.Engine
	jwt    *auth.JWTService
}

func newAPIFixture(t *testing.T, httpCfg config.HTTPConfig) *apiFixture {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "router-test-secret-of-32-characters",
		AccessTokenExpiration: time.Minute,
		Issuer:                "supermercado-test",
	})

	engine, err := Build(t.Context(), Config{
		HTTP: httpCfg,
		JWT: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: auth.NewInMemoryTokenBlacklist(),
		},
	}, Handlers{
		Auth:     handler.NewAuthHandler(stubAuth{}),
		Health:   handler.NewHealthHandler("test", nil),
		Roles:    stubCRUD{},
		Users:    stubCRUD{},
		Products: stubCRUD{},
	})
	require.NoError(t, err)
	return &apiFixture{engine: engine, jwt: jwtService}
}

func (f *apiFixture) do(t *testing.T, method, path, role string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, err := f.jwt.GenerateAccessToken(auth.GenerateTokenInput{UserID: uuid.New(), Email: "u@super.co", Role: role})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token.Token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestBuild_PublicAndProtectedRoutes(t *testing.T) {
	f := newAPIFixture(t, config.HTTPConfig{MaxBodySize: 1 << 20})

	w := f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = f.do(t, http.MethodPost, "/api/v1/Auth/login", "", `{"email":"a@super.co","password":"x"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/v1/Productos", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/Productos", "Cajero", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/Auth/me", "Cajero", "").Code)
}

func TestBuild_AdminOnlyWrites(t *testing.T) {
	f := newAPIFixture(t, config.HTTPConfig{})

	for _, path := range []string{"/api/v1/Roles", "/api/v1/Usuarios"} {
		assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, path, "Cajero", "").Code, path)
		assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPost, path, "Cajero", "{}").Code, path)
		assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, path, AdminRole, "{}").Code, path)
	}
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/Productos", "Cajero", "{}").Code)
}

func TestBuild_LoginRateLimit(t *testing.T) {
	f := newAPIFixture(t, config.HTTPConfig{
		AuthRateLimitEnabled:  true,
		AuthRateLimitRequests: 2,
		AuthRateLimitWindow:   time.Minute,
	})

	body := `{"email":"a@super.co","password":"x"}`
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/Auth/login", "", body).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/Auth/login", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, f.do(t, http.MethodPost, "/api/v1/Auth/login", "", body).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health", "", "").Code)
}
