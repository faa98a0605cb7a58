package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mwestin/accountd/internal/api/dto"
	"github.com/mwestin/accountd/internal/api/middleware"
	"github.com/mwestin/accountd/internal/core/repository"
	"github.com/mwestin/accountd/internal/core/service"
	"github.com/mwestin/accountd/internal/infrastructure/sqlite"
)

// testEnv holds all test dependencies
type testEnv struct {
	db          *sqlite.DB
	router      *gin.Engine
	authService *service.AuthService
	accountRepo repository.AccountRepository
}

// setupTestEnv creates a test environment with an in-memory SQLite database
// and the production route layout.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	accountRepo := sqlite.NewAccountRepository(db)

	authService, err := service.NewAuthService(accountRepo, service.TokenConfig{
		Algorithm: "HS256",
		SecretKey: "test-secret",
		Lifetime:  time.Hour,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}

	accountHandler := NewAccountHandler(authService, accountRepo)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.POST("/register", accountHandler.Register)
	router.POST("/login", accountHandler.Login)

	authMiddleware := middleware.AuthMiddleware(authService)
	accounts := router.Group("/accounts")
	accounts.Use(authMiddleware)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/me", accountHandler.Me)

	return &testEnv{
		db:          db,
		router:      router,
		authService: authService,
		accountRepo: accountRepo,
	}
}

// postJSON performs a POST request with a JSON body
func (env *testEnv) postJSON(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// get performs a GET request, optionally with a bearer token
func (env *testEnv) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func registerRequest() map[string]string {
	return map[string]string{
		"username":  "alice1",
		"password":  "correcthorsebattery",
		"firstName": "A",
		"lastName":  "L",
		"email":     "a@example.com",
	}
}

// register creates an account through the API and returns its id
func (env *testEnv) register(t *testing.T, body map[string]string) string {
	t.Helper()

	w := env.postJSON(t, "/register", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed with status %d: %s", w.Code, w.Body.String())
	}

	var resp dto.RegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse register response: %v", err)
	}
	return resp.ID
}

// login authenticates through the API and returns the access token
func (env *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()

	w := env.postJSON(t, "/login", map[string]string{
		"username": username,
		"password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}

	var resp dto.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse login response: %v", err)
	}
	return resp.AccessToken
}

func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}
