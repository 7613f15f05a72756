package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/findithq/findit/internal/db"
	"github.com/findithq/findit/internal/model"
	"github.com/findithq/findit/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, database
}

// registerUser creates an account through the API and returns its token and id.
func registerUser(t *testing.T, server *httptest.Server, email string) (token, id string) {
	t.Helper()
	resp := doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register failed: %d", resp.StatusCode)
	}

	var session struct {
		Token   string        `json:"token"`
		Profile model.Profile `json:"profile"`
	}
	json.NewDecoder(resp.Body).Decode(&session)
	if session.Token == "" {
		t.Fatal("empty token from register")
	}
	return session.Token, session.Profile.ID
}

// registerAdmin registers a user and flips the admin flag directly in the
// database, the same way first-run provisioning does.
func registerAdmin(t *testing.T, server *httptest.Server, database *sql.DB, email string) (token, id string) {
	t.Helper()
	token, id = registerUser(t, server, email)
	if err := store.SetProfileAdmin(context.Background(), database, id, true); err != nil {
		t.Fatalf("SetProfileAdmin: %v", err)
	}
	return token, id
}

// doJSON sends a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeItem(t *testing.T, resp *http.Response) model.Item {
	t.Helper()
	defer resp.Body.Close()
	var item model.Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("decoding item: %v", err)
	}
	return item
}

func itemBody(kind, title string) map[string]string {
	return map[string]string{
		"kind":          kind,
		"title":         title,
		"description":   "test description",
		"location":      "test location",
		"date_reported": "2026-08-20",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	server, _ := setupTestServer(t)

	token, _ := registerUser(t, server, "alice@example.com")
	if token == "" {
		t.Fatal("expected token")
	}

	// Duplicate email is rejected.
	resp := doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "password123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", resp.StatusCode)
	}

	// Wrong password.
	resp = doJSON(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", resp.StatusCode)
	}

	// Correct login.
	resp = doJSON(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "password123",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for login, got %d", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "bad-email", "password": "password123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad email, got %d", resp.StatusCode)
	}

	resp = doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ok@example.com", "password": "short",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for short password, got %d", resp.StatusCode)
	}
}

func TestItemsRequireAuth(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/items")
	if err != nil {
		t.Fatalf("GET items: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestCreateItemAlwaysOpen(t *testing.T) {
	server, _ := setupTestServer(t)
	token, _ := registerUser(t, server, "user@example.com")

	// A smuggled status field is ignored; new reports are always open.
	body := itemBody("lost", "Backpack")
	body["status"] = "closed"
	resp := doJSON(t, server, http.MethodPost, "/api/items", token, body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	item := decodeItem(t, resp)
	if item.Status != model.StatusOpen {
		t.Errorf("expected status 'open', got %q", item.Status)
	}
}

func TestCreateItemValidation(t *testing.T) {
	server, _ := setupTestServer(t)
	token, _ := registerUser(t, server, "user@example.com")

	body := itemBody("lost", "")
	resp := doJSON(t, server, http.MethodPost, "/api/items", token, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing title, got %d", resp.StatusCode)
	}

	body = itemBody("stolen", "Backpack")
	resp = doJSON(t, server, http.MethodPost, "/api/items", token, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad kind, got %d", resp.StatusCode)
	}

	body = itemBody("lost", "Backpack")
	body["date_reported"] = "2030-01-01"
	resp = doJSON(t, server, http.MethodPost, "/api/items", token, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for future date, got %d", resp.StatusCode)
	}
}

func TestListItemsFiltered(t *testing.T) {
	server, _ := setupTestServer(t)
	token, _ := registerUser(t, server, "user@example.com")

	doJSON(t, server, http.MethodPost, "/api/items", token, itemBody("lost", "Blue Backpack")).Body.Close()
	doJSON(t, server, http.MethodPost, "/api/items", token, itemBody("found", "Red Wallet")).Body.Close()

	resp := doJSON(t, server, http.MethodGet, "/api/items?kind=lost", token, nil)
	defer resp.Body.Close()
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	if len(items) != 1 || items[0].Title != "Blue Backpack" {
		t.Errorf("expected only the lost item, got %d items", len(items))
	}

	resp = doJSON(t, server, http.MethodGet, "/api/items?term=wallet&status=open", token, nil)
	defer resp.Body.Close()
	items = nil
	json.NewDecoder(resp.Body).Decode(&items)
	if len(items) != 1 || items[0].Title != "Red Wallet" {
		t.Errorf("expected the wallet, got %d items", len(items))
	}
}

func TestOwnerStatusForwardOnly(t *testing.T) {
	server, _ := setupTestServer(t)
	token, _ := registerUser(t, server, "owner@example.com")

	resp := doJSON(t, server, http.MethodPost, "/api/items", token, itemBody("lost", "Backpack"))
	item := decodeItem(t, resp)

	// Forward is fine.
	resp = doJSON(t, server, http.MethodPut, "/api/items/"+item.ID+"/status", token, map[string]string{"status": "matched"})
	updated := decodeItem(t, resp)
	if updated.Status != model.StatusMatched {
		t.Errorf("expected 'matched', got %q", updated.Status)
	}

	// Backward is not.
	resp = doJSON(t, server, http.MethodPut, "/api/items/"+item.ID+"/status", token, map[string]string{"status": "open"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for backward transition, got %d", resp.StatusCode)
	}
}

func TestAdminCanReopenAndOthersCannotTouch(t *testing.T) {
	server, database := setupTestServer(t)
	ownerToken, _ := registerUser(t, server, "owner@example.com")
	strangerToken, _ := registerUser(t, server, "stranger@example.com")
	adminToken, _ := registerAdmin(t, server, database, "admin@example.com")

	resp := doJSON(t, server, http.MethodPost, "/api/items", ownerToken, itemBody("lost", "Backpack"))
	item := decodeItem(t, resp)

	// Someone else's item is off limits.
	resp = doJSON(t, server, http.MethodPut, "/api/items/"+item.ID+"/status", strangerToken, map[string]string{"status": "matched"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner, got %d", resp.StatusCode)
	}

	// Admin closes, then reopens.
	resp = doJSON(t, server, http.MethodPut, "/api/items/"+item.ID+"/status", adminToken, map[string]string{"status": "closed"})
	resp.Body.Close()
	resp = doJSON(t, server, http.MethodPut, "/api/items/"+item.ID+"/status", adminToken, map[string]string{"status": "open"})
	updated := decodeItem(t, resp)
	if updated.Status != model.StatusOpen {
		t.Errorf("expected admin reopen to succeed, got %q", updated.Status)
	}
}

func TestDeleteItemRequiresAdmin(t *testing.T) {
	server, database := setupTestServer(t)
	ownerToken, _ := registerUser(t, server, "owner@example.com")
	adminToken, _ := registerAdmin(t, server, database, "admin@example.com")

	resp := doJSON(t, server, http.MethodPost, "/api/items", ownerToken, itemBody("lost", "Backpack"))
	item := decodeItem(t, resp)

	resp = doJSON(t, server, http.MethodDelete, "/api/items/"+item.ID, ownerToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin delete, got %d", resp.StatusCode)
	}

	resp = doJSON(t, server, http.MethodDelete, "/api/items/"+item.ID, adminToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for admin delete, got %d", resp.StatusCode)
	}

	resp = doJSON(t, server, http.MethodGet, "/api/items/"+item.ID, ownerToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestCategoryCreateRejectsWhitespaceName(t *testing.T) {
	server, database := setupTestServer(t)
	adminToken, _ := registerAdmin(t, server, database, "admin@example.com")

	resp := doJSON(t, server, http.MethodPost, "/api/categories", adminToken, map[string]string{"name": "   "})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for whitespace name, got %d", resp.StatusCode)
	}

	categories, err := store.ListCategories(context.Background(), database)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("expected no categories, got %d", len(categories))
	}
}

func TestCategoryWritesAreAdminOnly(t *testing.T) {
	server, database := setupTestServer(t)
	userToken, _ := registerUser(t, server, "user@example.com")
	adminToken, _ := registerAdmin(t, server, database, "admin@example.com")

	resp := doJSON(t, server, http.MethodPost, "/api/categories", userToken, map[string]string{"name": "Bags"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin create, got %d", resp.StatusCode)
	}

	resp = doJSON(t, server, http.MethodPost, "/api/categories", adminToken, map[string]string{"name": "Bags"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for admin create, got %d", resp.StatusCode)
	}
	var category model.Category
	json.NewDecoder(resp.Body).Decode(&category)

	// Everyone can read.
	resp = doJSON(t, server, http.MethodGet, "/api/categories", userToken, nil)
	defer resp.Body.Close()
	var categories []model.Category
	json.NewDecoder(resp.Body).Decode(&categories)
	if len(categories) != 1 {
		t.Errorf("expected 1 category, got %d", len(categories))
	}

	resp = doJSON(t, server, http.MethodDelete, "/api/categories/"+category.ID, userToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin delete, got %d", resp.StatusCode)
	}
}

func TestProfileModeration(t *testing.T) {
	server, database := setupTestServer(t)
	userToken, userID := registerUser(t, server, "user@example.com")
	adminToken, adminID := registerAdmin(t, server, database, "admin@example.com")

	resp := doJSON(t, server, http.MethodGet, "/api/profiles", userToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin list, got %d", resp.StatusCode)
	}

	// Self-demotion is blocked.
	resp = doJSON(t, server, http.MethodPut, "/api/profiles/"+adminID+"/admin", adminToken, map[string]bool{"admin": false})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for self-demotion, got %d", resp.StatusCode)
	}

	// Promoting another profile works.
	resp = doJSON(t, server, http.MethodPut, "/api/profiles/"+userID+"/admin", adminToken, map[string]bool{"admin": true})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for promotion, got %d", resp.StatusCode)
	}
	var promoted model.Profile
	json.NewDecoder(resp.Body).Decode(&promoted)
	if !promoted.IsAdmin {
		t.Error("expected promoted profile to be admin")
	}
}

func TestFreshAdminFlagIsUsed(t *testing.T) {
	server, database := setupTestServer(t)
	token, id := registerAdmin(t, server, database, "admin@example.com")

	// Revoke directly; the old token must lose admin access immediately.
	if err := store.SetProfileAdmin(context.Background(), database, id, false); err != nil {
		t.Fatalf("SetProfileAdmin: %v", err)
	}

	resp := doJSON(t, server, http.MethodGet, "/api/profiles", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 after revocation, got %d", resp.StatusCode)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, _ := setupTestServer(t)
	token, _ := registerUser(t, server, "user@example.com")

	resp := doJSON(t, server, http.MethodGet, "/api/auth/session", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected live session, got %d", resp.StatusCode)
	}

	resp = doJSON(t, server, http.MethodPost, "/api/auth/logout", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout failed: %d", resp.StatusCode)
	}

	resp = doJSON(t, server, http.MethodGet, "/api/auth/session", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}
