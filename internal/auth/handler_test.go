package auth

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "docs", "schema.sql"))
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func newAuthRouter(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewRepo(newTestDB(t))
	tickets := TicketService{Secret: []byte("test-secret"), Issuer: "dancehub-test", Duration: time.Hour}
	h := NewHandler(repo, tickets)

	router := gin.New()
	h.RegisterRoutes(router.Group("/auth"))
	return router, h
}

func doRequest(router *gin.Engine, method, path, ticket string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if ticket != "" {
		req.Header.Set("Authorization", "Bearer "+ticket)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "dancer",
		"email":    "dancer@example.com",
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Ticket string `json:"ticket"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if resp.Ticket == "" {
		t.Fatal("register returned no ticket")
	}
	return resp.Ticket
}

func TestRegisterAndLogin(t *testing.T) {
	router, _ := newAuthRouter(t)
	registerUser(t, router)

	w := doRequest(router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "dancer@example.com",
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Ticket string `json:"ticket"`
		User   struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Ticket == "" || resp.User.Username != "dancer" {
		t.Fatalf("login response = %s", w.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newAuthRouter(t)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"short username", map[string]string{"username": "ab", "email": "a@b.c", "password": "longenough"}, http.StatusBadRequest},
		{"bad email", map[string]string{"username": "dancer", "email": "nope", "password": "longenough"}, http.StatusBadRequest},
		{"short password", map[string]string{"username": "dancer", "email": "a@b.c", "password": "short"}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/auth/register", "", tc.body)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router, _ := newAuthRouter(t)
	registerUser(t, router)

	w := doRequest(router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "other",
		"email":    "dancer@example.com",
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newAuthRouter(t)
	registerUser(t, router)

	w := doRequest(router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "dancer@example.com",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401: %s", w.Code, w.Body.String())
	}
}

func TestLogoutInvalidatesTicket(t *testing.T) {
	router, _ := newAuthRouter(t)
	ticket := registerUser(t, router)

	w := doRequest(router, http.MethodPost, "/auth/logout", ticket, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d: %s", w.Code, w.Body.String())
	}

	// The logged-out ticket carries a stale version and must stop working.
	w = doRequest(router, http.MethodPost, "/auth/logout", ticket, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("stale ticket status = %d, want 401: %s", w.Code, w.Body.String())
	}
}

func TestChangePasswordRotatesTicket(t *testing.T) {
	router, _ := newAuthRouter(t)
	ticket := registerUser(t, router)

	w := doRequest(router, http.MethodPost, "/auth/change-password", ticket, map[string]string{
		"old_password": "hunter2hunter2",
		"new_password": "evenlongersecret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("change password status = %d: %s", w.Code, w.Body.String())
	}

	// Old password no longer works.
	w = doRequest(router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "dancer@example.com",
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("old password status = %d, want 401", w.Code)
	}

	// New password does.
	w = doRequest(router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "dancer@example.com",
		"password": "evenlongersecret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("new password status = %d: %s", w.Code, w.Body.String())
	}

	// The pre-change ticket is invalidated by the version bump.
	w = doRequest(router, http.MethodPost, "/auth/logout", ticket, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("pre-change ticket status = %d, want 401", w.Code)
	}
}

func TestProtectedRouteRequiresTicket(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := doRequest(router, http.MethodPost, "/auth/logout", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	w = doRequest(router, http.MethodPost, "/auth/logout", "garbage-ticket", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
