package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func registerUser(t *testing.T, env *testEnv, username, email, password string) AuthResponse {
	t.Helper()

	body := `{"username":"` + username + `","email":"` + email + `","password":"` + password + `"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))

	env.handler.RegisterHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d (body: %s)", rec.Code, rec.Body.String())
	}
	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	return resp
}

func TestRegisterHandler(t *testing.T) {
	env := newTestEnv(t)

	resp := registerUser(t, env, "alice", "alice@example.com", "hunter22")

	if resp.Token == "" {
		t.Error("register returned no token")
	}
	if resp.User == nil || resp.User.ID == 0 {
		t.Fatal("register returned no user ID")
	}

	claims, err := env.handler.verifier.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("token userID = %d, user ID = %d", claims.UserID, resp.User.ID)
	}
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "alice@example.com", "hunter22")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"alice","email":"other@example.com","password":"x"}`))
	env.handler.RegisterHandler(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}
}

func TestRegisterHandlerMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"alice"}`))
	env.handler.RegisterHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "alice@example.com", "hunter22")

	cases := []struct {
		name string
		body string
		want int
	}{
		{"by username", `{"username":"alice","password":"hunter22"}`, http.StatusOK},
		{"by email", `{"username":"alice@example.com","password":"hunter22"}`, http.StatusOK},
		{"wrong password", `{"username":"alice","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"bob","password":"hunter22"}`, http.StatusUnauthorized},
		{"missing password", `{"username":"alice"}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tc.body))
			env.handler.LoginHandler(rec, req)

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tc.want, rec.Body.String())
			}
			if tc.want == http.StatusOK {
				var resp AuthResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to decode login response: %v", err)
				}
				if resp.Token == "" {
					t.Error("login returned no token")
				}
			}
		})
	}
}

func TestLoginResponseOmitsPasswordHash(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "alice@example.com", "hunter22")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"hunter22"}`))
	env.handler.LoginHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password_hash") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Error("login response leaks the password hash")
	}
}
