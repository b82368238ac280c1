package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/terraincognita07/daylog/internal/services"
)

type sessionResponse struct {
	Session services.EntrySession `json:"session"`
}

func createOneEntry(t *testing.T, ta *testApp, cookie *http.Cookie) uint {
	t.Helper()
	response := submitRows(t, ta, cookie, "2025-01-10", rows("rapat", "notulen"))
	expectStatus(t, response, http.StatusCreated)
	created := entriesCreatedResponse{}
	decodeJSON(t, response.Body, &created)
	return created.Entries[0].ID
}

func TestEntrySessionEditSaveReturnsToIdle(t *testing.T) {
	t.Parallel()
	ta := newTestApp(t)
	auth := ta.loginNewUser(t, "Ana")
	id := createOneEntry(t, ta, auth)

	begin := ta.do(t, http.MethodPost, fmt.Sprintf("/api/entries/%d/edit", id), nil, auth)
	expectStatus(t, begin, http.StatusOK)
	view := entrySessionView{}
	decodeJSON(t, begin.Body, &view)
	if view.State != services.EntrySessionEditing || view.EntryID != id || view.Entry == nil {
		t.Fatalf("unexpected edit view %+v", view)
	}
	session := responseCookie(begin.Cookies(), entrySessionCookieName)
	if session == nil || session.Value == "" {
		t.Fatal("expected entry session cookie")
	}

	current := ta.do(t, http.MethodGet, "/api/session", nil, auth, session)
	expectStatus(t, current, http.StatusOK)
	decodeJSON(t, current.Body, &view)
	if view.State != services.EntrySessionEditing || view.Entry == nil || view.Entry.Description != "rapat" {
		t.Fatalf("expected editing session with entry, got %+v", view)
	}

	rejected := ta.do(t, http.MethodPost, "/api/session/edit/save", map[string]any{"result": " "}, auth, session)
	expectStatus(t, rejected, http.StatusBadRequest)
	if cleared := responseCookie(rejected.Cookies(), entrySessionCookieName); cleared != nil {
		t.Fatal("expected rejected save to keep the session cookie untouched")
	}

	saved := ta.do(t, http.MethodPost, "/api/session/edit/save", map[string]any{"result": "notulen final"}, auth, session)
	expectStatus(t, saved, http.StatusOK)
	result := sessionResponse{}
	decodeJSON(t, saved.Body, &result)
	if result.Session.State != services.EntrySessionIdle {
		t.Fatalf("expected idle after save, got %q", result.Session.State)
	}
	cleared := responseCookie(saved.Cookies(), entrySessionCookieName)
	if cleared == nil || cleared.Value != "" {
		t.Fatal("expected save to clear the session cookie")
	}

	fetched := ta.do(t, http.MethodGet, fmt.Sprintf("/api/entries/%d", id), nil, auth)
	entry := struct {
		Result string `json:"result"`
	}{}
	decodeJSON(t, fetched.Body, &entry)
	if entry.Result != "notulen final" {
		t.Fatalf("expected saved result, got %q", entry.Result)
	}
}

func TestEntrySessionCancelEdit(t *testing.T) {
	t.Parallel()
	ta := newTestApp(t)
	auth := ta.loginNewUser(t, "Ana")
	id := createOneEntry(t, ta, auth)

	idleCancel := ta.do(t, http.MethodPost, "/api/session/edit/cancel", nil, auth)
	expectStatus(t, idleCancel, http.StatusConflict)
	if code := readAPIError(t, idleCancel.Body); code != "session_transition" {
		t.Fatalf("expected session_transition, got %q", code)
	}

	begin := ta.do(t, http.MethodPost, fmt.Sprintf("/api/entries/%d/edit", id), nil, auth)
	session := responseCookie(begin.Cookies(), entrySessionCookieName)

	cancel := ta.do(t, http.MethodPost, "/api/session/edit/cancel", nil, auth, session)
	expectStatus(t, cancel, http.StatusOK)
	result := sessionResponse{}
	decodeJSON(t, cancel.Body, &result)
	if result.Session.State != services.EntrySessionIdle {
		t.Fatalf("expected idle after cancel, got %q", result.Session.State)
	}
}

func TestEntrySessionDeleteFlow(t *testing.T) {
	t.Parallel()
	ta := newTestApp(t)
	auth := ta.loginNewUser(t, "Ana")
	id := createOneEntry(t, ta, auth)

	request := ta.do(t, http.MethodPost, fmt.Sprintf("/api/entries/%d/delete-request", id), nil, auth)
	expectStatus(t, request, http.StatusOK)
	session := responseCookie(request.Cookies(), entrySessionCookieName)

	editWhileConfirming := ta.do(t, http.MethodPost, fmt.Sprintf("/api/entries/%d/edit", id), nil, auth, session)
	expectStatus(t, editWhileConfirming, http.StatusConflict)

	cancel := ta.do(t, http.MethodPost, "/api/session/delete/cancel", nil, auth, session)
	expectStatus(t, cancel, http.StatusOK)
	expectStatus(t, ta.do(t, http.MethodGet, fmt.Sprintf("/api/entries/%d", id), nil, auth), http.StatusOK)

	request = ta.do(t, http.MethodPost, fmt.Sprintf("/api/entries/%d/delete-request", id), nil, auth)
	session = responseCookie(request.Cookies(), entrySessionCookieName)
	confirm := ta.do(t, http.MethodPost, "/api/session/delete/confirm", nil, auth, session)
	expectStatus(t, confirm, http.StatusOK)
	expectStatus(t, ta.do(t, http.MethodGet, fmt.Sprintf("/api/entries/%d", id), nil, auth), http.StatusNotFound)

	again := ta.do(t, http.MethodPost, "/api/session/delete/confirm", nil, auth)
	expectStatus(t, again, http.StatusConflict)
}

func TestEntrySessionIgnoresForeignOrTamperedCookie(t *testing.T) {
	t.Parallel()
	ta := newTestApp(t)
	owner := ta.loginNewUser(t, "Ana")
	stranger := ta.loginNewUser(t, "Budi")
	id := createOneEntry(t, ta, owner)

	begin := ta.do(t, http.MethodPost, fmt.Sprintf("/api/entries/%d/edit", id), nil, owner)
	session := responseCookie(begin.Cookies(), entrySessionCookieName)

	foreign := ta.do(t, http.MethodGet, "/api/session", nil, stranger, session)
	expectStatus(t, foreign, http.StatusOK)
	view := entrySessionView{}
	decodeJSON(t, foreign.Body, &view)
	if view.State != services.EntrySessionIdle {
		t.Fatalf("expected foreign session to read as idle, got %q", view.State)
	}

	tampered := &http.Cookie{Name: entrySessionCookieName, Value: session.Value + "x"}
	response := ta.do(t, http.MethodGet, "/api/session", nil, owner, tampered)
	expectStatus(t, response, http.StatusOK)
	decodeJSON(t, response.Body, &view)
	if view.State != services.EntrySessionIdle {
		t.Fatalf("expected tampered session to read as idle, got %q", view.State)
	}
}

func TestEntrySessionResetsWhenEntryIsGone(t *testing.T) {
	t.Parallel()
	ta := newTestApp(t)
	auth := ta.loginNewUser(t, "Ana")
	id := createOneEntry(t, ta, auth)

	begin := ta.do(t, http.MethodPost, fmt.Sprintf("/api/entries/%d/edit", id), nil, auth)
	session := responseCookie(begin.Cookies(), entrySessionCookieName)
	expectStatus(t, ta.do(t, http.MethodDelete, fmt.Sprintf("/api/entries/%d", id), nil, auth), http.StatusOK)

	response := ta.do(t, http.MethodGet, "/api/session", nil, auth, session)
	expectStatus(t, response, http.StatusOK)
	view := entrySessionView{}
	decodeJSON(t, response.Body, &view)
	if view.State != services.EntrySessionIdle || view.Entry != nil {
		t.Fatalf("expected idle session after entry removal, got %+v", view)
	}
}
