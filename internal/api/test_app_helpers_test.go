package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daylog/internal/db"
	"github.com/terraincognita07/daylog/internal/i18n"
	"github.com/terraincognita07/daylog/internal/models"
	"github.com/terraincognita07/daylog/internal/services"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

type testApp struct {
	app     *fiber.App
	handler *Handler
	repos   *db.Repositories
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithOptions(t, false, services.SlotPolicySequential)
}

func newTestAppWithOptions(t *testing.T, cookieSecure bool, policy services.SlotPolicy) *testApp {
	t.Helper()
	repos := openTestRepositories(t)
	return newTestAppWithStores(t, repos, repos.Entries, repos.Users, cookieSecure, policy)
}

func openTestRepositories(t *testing.T) *db.Repositories {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "daylog-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db.NewRepositories(database)
}

// newTestAppWithStores serves entries and users through the given stores
// while repos stays available for direct fixture setup.
func newTestAppWithStores(t *testing.T, repos *db.Repositories, entries services.EntryStore, users services.AuthUserRepository, cookieSecure bool, policy services.SlotPolicy) *testApp {
	t.Helper()

	i18nManager, err := i18n.NewManager(i18n.LangEN)
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	handler, err := NewHandler(Dependencies{
		Entries:      entries,
		Users:        users,
		IsNotFound:   db.IsNotFound,
		SecretKey:    testSecretKey,
		Location:     time.UTC,
		I18n:         i18nManager,
		CookieSecure: cookieSecure,
		SlotPolicy:   policy,
		Now:          func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return &testApp{app: app, handler: handler, repos: repos}
}

func createTestUser(t *testing.T, repos *db.Repositories, username string, password string, mustChange bool) models.User {
	t.Helper()

	hash, err := services.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Username:           username,
		PasswordHash:       hash,
		MustChangePassword: mustChange,
		CreatedAt:          testNow,
	}
	if err := repos.Users.Create(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// do sends a request with an optional JSON body and cookies.
func (ta *testApp) do(t *testing.T, method string, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = strings.NewReader(string(payload))
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		if cookie != nil {
			request.AddCookie(cookie)
		}
	}

	response, err := ta.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() { _ = response.Body.Close() })
	return response
}

func (ta *testApp) login(t *testing.T, username string, password string) *http.Cookie {
	t.Helper()

	response := ta.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": username,
		"password": password,
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected login status 200, got %d", response.StatusCode)
	}
	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected auth cookie after login")
	}
	return cookie
}

func (ta *testApp) loginNewUser(t *testing.T, username string) *http.Cookie {
	t.Helper()
	createTestUser(t, ta.repos, username, "secret-pass", false)
	return ta.login(t, username, "secret-pass")
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func decodeJSON(t *testing.T, body io.Reader, target any) {
	t.Helper()

	content, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(content, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(content), err)
	}
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()

	payload := map[string]any{}
	decodeJSON(t, body, &payload)
	code, _ := payload["error"].(string)
	return code
}

func expectStatus(t *testing.T, response *http.Response, status int) {
	t.Helper()
	if response.StatusCode != status {
		content, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", status, response.StatusCode, string(content))
	}
}
