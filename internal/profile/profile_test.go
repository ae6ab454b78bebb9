package profile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"freelansim-bot/internal/models"
)

const personalPage = `<!doctype html>
<html><body>
<form class="form_avatar" action="/freelancers/ivan/avatar">
  <img class="avatario" src="/uploads/ivan.png">
</form>
<input name="freelancer[first_name]" value="Иван">
<input name="freelancer[last_name]" value="Иванов">
<input name="freelancer[location]" value="Москва">
<textarea name="freelancer[self_about]">
Пишу ботов.
</textarea>
<ul class="menu_user-settings"><li><span class="count">150 руб.</span></li></ul>
<a class="subscription"><small class="active">Осталось 4 ответа</small></a>
</body></html>`

const anonymousPage = `<!doctype html><html><body><h1>Вход</h1></body></html>`

func personalServer(t *testing.T, page string, seenCookie *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seenCookie != nil {
			if c, err := r.Cookie("_session_id"); err == nil {
				*seenCookie = c.Value
			}
		}
		w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeCookies(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookies.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAuthCheckParsesProfile(t *testing.T) {
	srv := personalServer(t, personalPage, nil)
	s, err := NewSession(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	info, err := s.AuthCheck(context.Background())
	if err != nil {
		t.Fatalf("auth check: %v", err)
	}

	if info.Username != "ivan" {
		t.Fatalf("username = %q", info.Username)
	}
	if info.FirstName != "Иван" || info.LastName != "Иванов" {
		t.Fatalf("name = %q %q", info.FirstName, info.LastName)
	}
	if info.Location != "Москва" {
		t.Fatalf("location = %q", info.Location)
	}
	if info.About != "Пишу ботов." {
		t.Fatalf("about = %q", info.About)
	}
	if info.Avatar != "/uploads/ivan.png" {
		t.Fatalf("avatar = %q", info.Avatar)
	}
	if info.Balance != 150 {
		t.Fatalf("balance = %d", info.Balance)
	}
	if info.AvailableResponses != 4 {
		t.Fatalf("responses = %d", info.AvailableResponses)
	}
}

func TestAuthCheckAnonymous(t *testing.T) {
	srv := personalServer(t, anonymousPage, nil)
	s, err := NewSession(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	if _, err := s.AuthCheck(context.Background()); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestLoadCookiesInstallsSession(t *testing.T) {
	var seen string
	srv := personalServer(t, personalPage, &seen)
	s, err := NewSession(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	path := writeCookies(t, `[{"name":"lang","value":"ru"},{"name":"_session_id","value":"abc123"}]`)
	if !s.LoadCookies(context.Background(), path) {
		t.Fatalf("cookies should load against an authorized page")
	}
	if !s.Authorized() {
		t.Fatalf("session not marked authorized")
	}
	if seen != "abc123" {
		t.Fatalf("session cookie not sent, saw %q", seen)
	}
}

func TestLoadCookiesWithoutSessionID(t *testing.T) {
	srv := personalServer(t, personalPage, nil)
	s, err := NewSession(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	path := writeCookies(t, `[{"name":"lang","value":"ru"}]`)
	if s.LoadCookies(context.Background(), path) {
		t.Fatalf("load must fail without _session_id")
	}
	if s.Authorized() {
		t.Fatalf("session must stay unauthorized")
	}
}

func TestAnswerRequiresAuthorization(t *testing.T) {
	s, err := NewSession("http://unused.invalid", time.Second)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	task := models.Task{ID: 7, URL: "http://unused.invalid/tasks/7"}
	if err := s.Answer(context.Background(), task, "Готов взяться"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestAnswerPostsComment(t *testing.T) {
	var posted bool
	var token, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/my/personal":
			w.Write([]byte(personalPage))
		case r.Method == http.MethodGet && r.URL.Path == "/tasks/7":
			w.Write([]byte(`<html><head><meta name="csrf-token" content="tok-42"></head><body></body></html>`))
		case r.Method == http.MethodPost && r.URL.Path == "/tasks/7/task_comments":
			posted = true
			token = r.Header.Get("X-CSRF-Token")
			if err := r.ParseForm(); err == nil {
				body = r.PostForm.Get("task_comment[body]")
			}
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	s, err := NewSession(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	path := writeCookies(t, `[{"name":"_session_id","value":"abc123"}]`)
	if !s.LoadCookies(context.Background(), path) {
		t.Fatalf("cookies should load")
	}

	task := models.Task{ID: 7, URL: srv.URL + "/tasks/7"}
	if err := s.Answer(context.Background(), task, "Готов взяться"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	if !posted {
		t.Fatalf("comment not posted")
	}
	if token != "tok-42" {
		t.Fatalf("csrf token = %q", token)
	}
	if body != "Готов взяться" {
		t.Fatalf("comment body = %q", body)
	}
}
