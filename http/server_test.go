package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaperyIron/notesWebApp/auth"
	"github.com/PaperyIron/notesWebApp/domain"
	"github.com/PaperyIron/notesWebApp/store"
)

// client drives the API in tests, carrying the session cookie between
// requests the way a browser would.
type client struct {
	t      *testing.T
	app    *fiber.App
	cookie string
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	server := NewServer(store.NewMemory(), auth.NewSessions(), zerolog.Nop())
	return server.App()
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app}
}

func (c *client) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: c.cookie})
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == auth.CookieName {
			c.cookie = ck.Value
		}
	}
	return resp
}

func (c *client) signup(username string) *http.Response {
	return c.do(fiber.MethodPost, "/signup", fiber.Map{
		"username":              username,
		"email":                 username + "@example.com",
		"password":              "password123",
		"password_confirmation": "password123",
	})
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSignupLoginSessionLifecycle(t *testing.T) {
	app := newTestApp(t)
	c := newClient(t, app)

	resp := c.signup("alice_01")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "alice_01", body["username"])
	assert.NotContains(t, body, "email")
	assert.NotContains(t, body, "password_hash")
	userID := body["id"]

	resp = c.do(fiber.MethodGet, "/check_session", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, decode(t, resp)["id"])

	resp = c.do(fiber.MethodDelete, "/logout", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = c.do(fiber.MethodGet, "/check_session", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = c.do(fiber.MethodDelete, "/logout", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No active session", decode(t, resp)["error"])

	// Log back in with the same credentials.
	resp = c.do(fiber.MethodPost, "/login", fiber.Map{"username": "alice_01", "password": "password123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, decode(t, resp)["id"])
}

// flakyStore lets a test inject a failure into user lookups.
type flakyStore struct {
	*store.Memory
	userErr error
}

func (f *flakyStore) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.Memory.UserByID(ctx, id)
}

func TestCheckSessionStoreFailure(t *testing.T) {
	fs := &flakyStore{Memory: store.NewMemory()}
	server := NewServer(fs, auth.NewSessions(), zerolog.Nop())
	c := newClient(t, server.App())

	resp := c.signup("alice_01")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	userID := int64(decode(t, resp)["id"].(float64))

	// An unexpected store failure is a 500, not a silent 401.
	fs.userErr = errors.New("connection reset")
	resp = c.do(fiber.MethodGet, "/check_session", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", decode(t, resp)["error"])

	// A session whose user is gone reads as no session.
	fs.userErr = nil
	require.NoError(t, fs.Memory.DeleteUser(context.Background(), userID))
	resp = c.do(fiber.MethodGet, "/check_session", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSignupRejections(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name   string
		body   fiber.Map
		status int
	}{
		{"missing fields", fiber.Map{"username": "alice"}, fiber.StatusBadRequest},
		{"confirmation mismatch", fiber.Map{
			"username": "alice", "email": "a@b.co",
			"password": "password123", "password_confirmation": "different123",
		}, fiber.StatusUnprocessableEntity},
		{"short password", fiber.Map{
			"username": "alice", "email": "a@b.co",
			"password": "short", "password_confirmation": "short",
		}, fiber.StatusUnprocessableEntity},
		{"bad username", fiber.Map{
			"username": "has spaces", "email": "a@b.co",
			"password": "password123", "password_confirmation": "password123",
		}, fiber.StatusUnprocessableEntity},
		{"bad email", fiber.Map{
			"username": "alice", "email": "not-an-email",
			"password": "password123", "password_confirmation": "password123",
		}, fiber.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := newClient(t, app).do(fiber.MethodPost, "/signup", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, fiber.StatusCreated, newClient(t, app).signup("taken_name").StatusCode)

	resp := newClient(t, app).signup("taken_name")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Username already exists", decode(t, resp)["error"])
}

func TestLoginBadCredentials(t *testing.T) {
	app := newTestApp(t)
	newClient(t, app).signup("alice_01")

	c := newClient(t, app)
	resp := c.do(fiber.MethodPost, "/login", fiber.Map{"username": "alice_01", "password": "wrongpass1"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = c.do(fiber.MethodPost, "/login", fiber.Map{"username": "alice_01"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAPIRequiresSession(t *testing.T) {
	app := newTestApp(t)
	c := newClient(t, app)

	for _, path := range []string{"/api/folders", "/api/notes", "/api/tags", "/api/notes/search"} {
		resp := c.do(fiber.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "path %s", path)
	}
	resp := c.do(fiber.MethodDelete, "/api/tags/1", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestFolderLifecycle(t *testing.T) {
	app := newTestApp(t)
	c := newClient(t, app)
	c.signup("alice_01")

	// Uppercase without the hash is rejected; with the hash it is
	// stored lowercased.
	resp := c.do(fiber.MethodPost, "/api/folders", fiber.Map{"name": "Work", "color": "FF5733"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = c.do(fiber.MethodPost, "/api/folders", fiber.Map{"name": "Work", "color": "#FF5733"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	folder := decode(t, resp)
	assert.Equal(t, "#ff5733", folder["color"])
	folderID := int64(folder["id"].(float64))

	// Missing color falls back to the default.
	resp = c.do(fiber.MethodPost, "/api/folders", fiber.Map{"name": "Misc"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "#6b7280", decode(t, resp)["color"])

	resp = c.do(fiber.MethodPost, "/api/folders", fiber.Map{"color": "#abcdef"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = c.do(fiber.MethodGet, "/api/folders", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	folders := decode(t, resp)["folders"].([]any)
	assert.Len(t, folders, 2)

	resp = c.do(fiber.MethodPut, fmt.Sprintf("/api/folders/%d", folderID), fiber.Map{"name": "Renamed"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decode(t, resp)
	assert.Equal(t, "Renamed", updated["name"])
	assert.Equal(t, "#ff5733", updated["color"])

	resp = c.do(fiber.MethodDelete, fmt.Sprintf("/api/folders/%d", folderID), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = c.do(fiber.MethodGet, fmt.Sprintf("/api/folders/%d", folderID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func (c *client) createFolder(name string) int64 {
	c.t.Helper()
	resp := c.do(fiber.MethodPost, "/api/folders", fiber.Map{"name": name, "color": "#3b82f6"})
	require.Equal(c.t, fiber.StatusCreated, resp.StatusCode)
	return int64(decode(c.t, resp)["id"].(float64))
}

func (c *client) createNote(title, content string, folderID int64) int64 {
	c.t.Helper()
	resp := c.do(fiber.MethodPost, "/api/notes", fiber.Map{
		"title": title, "content": content, "folder_id": folderID,
	})
	require.Equal(c.t, fiber.StatusCreated, resp.StatusCode)
	return int64(decode(c.t, resp)["id"].(float64))
}

func TestNoteLifecycle(t *testing.T) {
	app := newTestApp(t)
	c := newClient(t, app)
	c.signup("alice_01")
	folderID := c.createFolder("Work")

	resp := c.do(fiber.MethodPost, "/api/notes", fiber.Map{"content": "no title", "folder_id": folderID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = c.do(fiber.MethodPost, "/api/notes", fiber.Map{"title": "Orphan", "folder_id": 9999})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Folder not found", decode(t, resp)["error"])

	noteID := c.createNote("My note", "hello", folderID)

	resp = c.do(fiber.MethodGet, fmt.Sprintf("/api/notes/%d", noteID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	note := decode(t, resp)
	assert.Equal(t, "My note", note["title"])
	assert.Equal(t, "hello", note["content"])
	assert.Equal(t, []any{}, note["tags"])
	assert.NotEmpty(t, note["created_at"])

	resp = c.do(fiber.MethodPut, fmt.Sprintf("/api/notes/%d", noteID), fiber.Map{"content": "edited"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decode(t, resp)
	assert.Equal(t, "My note", updated["title"])
	assert.Equal(t, "edited", updated["content"])

	resp = c.do(fiber.MethodDelete, fmt.Sprintf("/api/notes/%d", noteID), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = c.do(fiber.MethodGet, fmt.Sprintf("/api/notes/%d", noteID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNotesPaginationEnvelope(t *testing.T) {
	app := newTestApp(t)
	c := newClient(t, app)
	c.signup("alice_01")
	folderID := c.createFolder("Bulk")

	for i := 0; i < 25; i++ {
		c.createNote(fmt.Sprintf("Note %02d", i), "", folderID)
	}

	resp := c.do(fiber.MethodGet, "/api/notes?limit=20&offset=0", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := decode(t, resp)
	assert.Len(t, page["notes"].([]any), 20)
	pg := page["pagination"].(map[string]any)
	assert.Equal(t, float64(25), pg["total"])
	assert.Equal(t, true, pg["has_more"])
	assert.Equal(t, float64(20), pg["next_offset"])

	resp = c.do(fiber.MethodGet, "/api/notes?limit=20&offset=20", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page = decode(t, resp)
	assert.Len(t, page["notes"].([]any), 5)
	pg = page["pagination"].(map[string]any)
	assert.Equal(t, false, pg["has_more"])
	assert.Nil(t, pg["next_offset"])
}

func TestSearchEndpoint(t *testing.T) {
	app := newTestApp(t)
	c := newClient(t, app)
	c.signup("alice_01")
	folderID := c.createFolder("Work")
	c.createNote("Groceries", "buy bananas", folderID)
	c.createNote("Standup", "agenda items", folderID)

	resp := c.do(fiber.MethodGet, "/api/notes/search?q=BANANAS", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	notes := decode(t, resp)["notes"].([]any)
	require.Len(t, notes, 1)
	assert.Equal(t, "Groceries", notes[0].(map[string]any)["title"])
}

func TestTagLifecycle(t *testing.T) {
	app := newTestApp(t)
	c := newClient(t, app)
	c.signup("alice_01")
	folderID := c.createFolder("Work")
	noteID := c.createNote("Tagged", "", folderID)

	resp := c.do(fiber.MethodPost, "/api/tags", fiber.Map{"name": "urgent"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	tagID := int64(decode(t, resp)["id"].(float64))

	resp = c.do(fiber.MethodPost, "/api/tags", fiber.Map{"name": "urgent"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Tag already exists", decode(t, resp)["error"])

	resp = c.do(fiber.MethodPost, fmt.Sprintf("/api/notes/%d/tags", noteID), fiber.Map{"tag_id": tagID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Tag added to note", decode(t, resp)["message"])

	resp = c.do(fiber.MethodPost, fmt.Sprintf("/api/notes/%d/tags", noteID), fiber.Map{"tag_id": tagID})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = c.do(fiber.MethodGet, fmt.Sprintf("/api/notes/%d", noteID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"urgent"}, decode(t, resp)["tags"])

	resp = c.do(fiber.MethodDelete, fmt.Sprintf("/api/notes/%d/tags/%d", noteID, tagID), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = c.do(fiber.MethodDelete, fmt.Sprintf("/api/notes/%d/tags/%d", noteID, tagID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Tag not found on note", decode(t, resp)["error"])

	resp = c.do(fiber.MethodDelete, fmt.Sprintf("/api/tags/%d", tagID), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestCrossTenantReads(t *testing.T) {
	app := newTestApp(t)

	alice := newClient(t, app)
	alice.signup("alice_01")
	folderID := alice.createFolder("Private")
	noteID := alice.createNote("Secret", "mine", folderID)

	bob := newClient(t, app)
	bob.signup("bob_01")

	resp := bob.do(fiber.MethodGet, fmt.Sprintf("/api/notes/%d", noteID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = bob.do(fiber.MethodGet, fmt.Sprintf("/api/folders/%d", folderID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Bob cannot create a note in Alice's folder either.
	resp = bob.do(fiber.MethodPost, "/api/notes", fiber.Map{"title": "Intrusion", "folder_id": folderID})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Alice still sees her note untouched.
	resp = alice.do(fiber.MethodGet, fmt.Sprintf("/api/notes/%d", noteID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
