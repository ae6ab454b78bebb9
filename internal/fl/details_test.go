package fl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const taskPage = `<!doctype html>
<html><body>
<div class="task__description">
Нужно написать бота.

Подробности в личке.
</div>
<div class="task__meta">Заказ
2 августа 2026, 15:04
</div>
<div class="user_about">
  <div class="avatar"><a href="/freelancers/ivan"><img src="/assets/avatars/ivan.png"></a></div>
  <span class="verified" title="Подтвержденный аккаунт"></span>
</div>
</body></html>`

const taskPageDefaultAvatar = `<!doctype html>
<html><body>
<div class="task__description">Текст</div>
<div class="user_about">
  <div class="avatar"><a href="/freelancers/petr"><img src="/assets/default_avatar.png"></a></div>
</div>
</body></html>`

func detailsClient(t *testing.T, page string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 50, time.Second, nil), srv
}

func TestTaskDetails(t *testing.T) {
	client, srv := detailsClient(t, taskPage)

	details, err := client.TaskDetails(context.Background(), 7)
	if err != nil {
		t.Fatalf("details: %v", err)
	}

	if details.Username != "ivan" {
		t.Fatalf("username = %q", details.Username)
	}
	if details.Avatar != srv.URL+"/assets/avatars/ivan.png" {
		t.Fatalf("avatar = %q", details.Avatar)
	}
	if details.Verified != "Подтвержденный аккаунт" {
		t.Fatalf("verified = %q", details.Verified)
	}

	want := time.Date(2026, time.August, 2, 15, 4, 0, 0, time.UTC)
	if !details.PublishedAt.Equal(want) {
		t.Fatalf("published = %v, want %v", details.PublishedAt, want)
	}
}

func TestTaskDetailsSkipsDefaultAvatar(t *testing.T) {
	client, _ := detailsClient(t, taskPageDefaultAvatar)

	details, err := client.TaskDetails(context.Background(), 8)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Avatar != "" {
		t.Fatalf("default avatar should be dropped, got %q", details.Avatar)
	}
	if details.Username != "petr" {
		t.Fatalf("username = %q", details.Username)
	}
}

func TestParseRussianDate(t *testing.T) {
	got, err := parseRussianDate("15 января 2026, 09:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := parseRussianDate("15 smarch 2026, 09:30"); err == nil {
		t.Fatalf("expected error for unknown month")
	}
}
