package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/mwestin/accountd/internal/api/dto"
)

func TestRegisterAndLoginFlow(t *testing.T) {
	env := setupTestEnv(t)

	id := env.register(t, registerRequest())
	if id == "" {
		t.Fatal("expected a non-empty account id")
	}

	token := env.login(t, "alice1", "correcthorsebattery")

	claims, err := env.authService.ValidateToken(token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Subject != id {
		t.Errorf("expected subject %s, got %s", id, claims.Subject)
	}
	if claims.Email != "a@example.com" {
		t.Errorf("expected email claim a@example.com, got %s", claims.Email)
	}

	// Wrong password is rejected with the generic message
	w := env.postJSON(t, "/login", map[string]string{
		"username": "alice1",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterAndLoginWithLongPasswords(t *testing.T) {
	// Passwords past bcrypt's 72-byte input limit are still valid up to 256
	// characters and must round-trip through register and login.
	lengths := []int{72, 73, 100, 256}

	for _, length := range lengths {
		t.Run(fmt.Sprintf("%d characters", length), func(t *testing.T) {
			env := setupTestEnv(t)

			body := registerRequest()
			body["password"] = strings.Repeat("p", length)

			w := env.postJSON(t, "/register", body)
			if w.Code != http.StatusCreated {
				t.Fatalf("expected 201 for %d-char password, got %d: %s", length, w.Code, w.Body.String())
			}

			token := env.login(t, body["username"], body["password"])
			if _, err := env.authService.ValidateToken(token); err != nil {
				t.Fatalf("issued token does not validate: %v", err)
			}
		})
	}
}

func TestRegisterResponseOmitsSensitiveFields(t *testing.T) {
	env := setupTestEnv(t)

	w := env.postJSON(t, "/register", registerRequest())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := strings.ToLower(w.Body.String())
	if strings.Contains(body, "password") || strings.Contains(body, "$2a$") {
		t.Errorf("register response leaks password material: %s", w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp) != 1 {
		t.Errorf("expected only the id field, got %v", resp)
	}
}

func TestRegisterValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(map[string]string)
		wantField string
	}{
		{
			name:      "username starting with digit",
			mutate:    func(m map[string]string) { m["username"] = "1alice" },
			wantField: "username",
		},
		{
			name:      "username with spaces",
			mutate:    func(m map[string]string) { m["username"] = "al ice" },
			wantField: "username",
		},
		{
			name:      "password too short",
			mutate:    func(m map[string]string) { m["password"] = "tooshort1" },
			wantField: "password",
		},
		{
			name:      "password too long",
			mutate:    func(m map[string]string) { m["password"] = strings.Repeat("x", 257) },
			wantField: "password",
		},
		{
			name:      "invalid email",
			mutate:    func(m map[string]string) { m["email"] = "not-an-email" },
			wantField: "email",
		},
		{
			name:      "missing first name",
			mutate:    func(m map[string]string) { delete(m, "firstName") },
			wantField: "firstName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)

			body := registerRequest()
			tt.mutate(body)

			w := env.postJSON(t, "/register", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}

			resp := parseErrorResponse(t, w)
			if _, ok := resp.Details[tt.wantField]; !ok {
				t.Errorf("expected field %q in details, got %v", tt.wantField, resp.Details)
			}
		})
	}
}

func TestRegisterAggregatesViolations(t *testing.T) {
	env := setupTestEnv(t)

	w := env.postJSON(t, "/register", map[string]string{
		"username": "1bad",
		"password": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseErrorResponse(t, w)
	for _, field := range []string{"username", "password", "firstName", "lastName", "email"} {
		if _, ok := resp.Details[field]; !ok {
			t.Errorf("expected field %q in details, got %v", field, resp.Details)
		}
	}
}

func TestRegisterDuplicates(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, registerRequest())

	dupUsername := registerRequest()
	dupUsername["email"] = "other@example.com"
	w := env.postJSON(t, "/register", dupUsername)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseErrorResponse(t, w); resp.Details["username"] == "" {
		t.Errorf("expected username cited, got %v", resp.Details)
	}

	dupEmail := registerRequest()
	dupEmail["username"] = "bob2"
	w = env.postJSON(t, "/register", dupEmail)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseErrorResponse(t, w); resp.Details["email"] == "" {
		t.Errorf("expected email cited, got %v", resp.Details)
	}
}

func TestLoginFailureShapeIsIdentical(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, registerRequest())

	unknown := env.postJSON(t, "/login", map[string]string{
		"username": "nobody",
		"password": "correcthorsebattery",
	})
	wrongPass := env.postJSON(t, "/login", map[string]string{
		"username": "alice1",
		"password": "wrong-password",
	})

	if unknown.Code != http.StatusUnauthorized || wrongPass.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrongPass.Code)
	}
	if unknown.Body.String() != wrongPass.Body.String() {
		t.Errorf("failure bodies differ:\n%s\n%s", unknown.Body.String(), wrongPass.Body.String())
	}
}

func TestLoginMissingFields(t *testing.T) {
	env := setupTestEnv(t)

	w := env.postJSON(t, "/login", map[string]string{"username": "alice1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", w.Code)
	}
}

func TestMe(t *testing.T) {
	env := setupTestEnv(t)
	id := env.register(t, registerRequest())
	token := env.login(t, "alice1", "correcthorsebattery")

	w := env.get(t, "/accounts/me", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ID != id || resp.Username != "alice1" || resp.Email != "a@example.com" {
		t.Errorf("unexpected profile: %+v", resp)
	}

	if body := strings.ToLower(w.Body.String()); strings.Contains(body, "password") {
		t.Errorf("profile response leaks password material: %s", w.Body.String())
	}
}

func TestMeRequiresToken(t *testing.T) {
	env := setupTestEnv(t)

	if w := env.get(t, "/accounts/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := env.get(t, "/accounts/me", "not-a-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", w.Code)
	}
}

func TestListAccounts(t *testing.T) {
	env := setupTestEnv(t)

	for i := 0; i < 3; i++ {
		body := registerRequest()
		body["username"] = fmt.Sprintf("user%d", i)
		body["email"] = fmt.Sprintf("user%d@example.com", i)
		env.register(t, body)
	}
	token := env.login(t, "user0", "correcthorsebattery")

	tests := []struct {
		name           string
		queryString    string
		expectedStatus int
		expectedCount  int
		expectedTotal  int
	}{
		{
			name:           "basic listing with default pagination",
			queryString:    "",
			expectedStatus: http.StatusOK,
			expectedCount:  3,
			expectedTotal:  3,
		},
		{
			name:           "filter by email",
			queryString:    "?query=email|user1@example.com",
			expectedStatus: http.StatusOK,
			expectedCount:  1,
			expectedTotal:  1,
		},
		{
			name:           "pagination page 2 with per_page 2",
			queryString:    "?page=2&per_page=2&order=username|asc",
			expectedStatus: http.StatusOK,
			expectedCount:  1,
			expectedTotal:  3,
		},
		{
			name:           "invalid query field returns 400",
			queryString:    "?query=password_hash|x",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid order direction returns 400",
			queryString:    "?order=username|sideways",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.get(t, "/accounts"+tt.queryString, token)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d\nBody: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp dto.AccountListResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if len(resp.Items) != tt.expectedCount {
				t.Errorf("expected %d items, got %d", tt.expectedCount, len(resp.Items))
			}
			if resp.Pagination.Total != tt.expectedTotal {
				t.Errorf("expected total %d, got %d", tt.expectedTotal, resp.Pagination.Total)
			}
		})
	}
}

func TestListAccountsRequiresToken(t *testing.T) {
	env := setupTestEnv(t)

	if w := env.get(t, "/accounts", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
