package integration

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestAuthFlowEndToEnd(t *testing.T) {
	baseURL, client, closeFn := newAuthTestServer(t)
	defer closeFn()

	credentials := map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	}

	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/signup", credentials, nil)
	if resp.StatusCode != http.StatusCreated || !env.Success {
		t.Fatalf("signup failed: status=%d success=%v", resp.StatusCode, env.Success)
	}

	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/signup", credentials, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate signup expected 409, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "USER_EXISTS" {
		t.Fatalf("duplicate signup expected USER_EXISTS, got %+v", env.Error)
	}

	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", credentials, nil)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("login failed: status=%d success=%v", resp.StatusCode, env.Success)
	}
	var loginData struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &loginData); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if loginData.Token == "" {
		t.Fatal("expected a token from login")
	}

	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/validate", map[string]any{
		"user_id": 1,
		"token":   loginData.Token,
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("validate expected 200, got %d", resp.StatusCode)
	}
	var verdict struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(env.Data, &verdict); err != nil {
		t.Fatalf("decode verdict: %v", err)
	}
	if !verdict.Valid {
		t.Fatal("freshly issued token must validate")
	}

	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrongpass",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password expected 401, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("wrong password expected INVALID_CREDENTIALS, got %+v", env.Error)
	}

	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/validate", map[string]any{
		"user_id": 1,
		"token":   loginData.Token[:len(loginData.Token)-4] + "AAAA",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("validate expected 200, got %d", resp.StatusCode)
	}
	if err := json.Unmarshal(env.Data, &verdict); err != nil {
		t.Fatalf("decode verdict: %v", err)
	}
	if verdict.Valid {
		t.Fatal("tampered token must not validate")
	}
}

func TestAuthFlowMeEndpoint(t *testing.T) {
	baseURL, client, closeFn := newAuthTestServer(t)
	defer closeFn()

	credentials := map[string]string{
		"email":    "bob@example.com",
		"password": "hunter2hunter2",
	}
	resp, _ := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/signup", credentials, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup failed: %d", resp.StatusCode)
	}
	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", credentials, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}
	var loginData struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &loginData); err != nil {
		t.Fatalf("decode login data: %v", err)
	}

	resp, _ = doJSON(t, client, http.MethodGet, baseURL+"/api/v1/me", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me without token expected 401, got %d", resp.StatusCode)
	}

	resp, env = doJSON(t, client, http.MethodGet, baseURL+"/api/v1/me", nil, map[string]string{
		"Authorization": "Bearer " + loginData.Token,
	})
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("me with token expected 200, got %d", resp.StatusCode)
	}
	var profile struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Email != "bob@example.com" {
		t.Fatalf("unexpected profile email %q", profile.Email)
	}
}

func TestAuthFlowEmailCaseVariants(t *testing.T) {
	baseURL, client, closeFn := newAuthTestServer(t)
	defer closeFn()

	resp, _ := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/signup", map[string]string{
		"email":    "Carol@Example.COM",
		"password": "secret123",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup failed: %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", map[string]string{
		"email":    "carol@example.com",
		"password": "secret123",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login with lowercased email expected 200, got %d", resp.StatusCode)
	}

	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/signup", map[string]string{
		"email":    "CAROL@example.com",
		"password": "secret123",
	}, nil)
	if resp.StatusCode != http.StatusConflict || env.Error == nil || env.Error.Code != "USER_EXISTS" {
		t.Fatalf("case-variant signup expected 409 USER_EXISTS, got %d %+v", resp.StatusCode, env.Error)
	}
}
