package bot

import (
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"freelansim-bot/internal/models"
)

func TestEventNewTaskDispatchesToExactSubscribers(t *testing.T) {
	b, rec := newTestBot(t)
	task := storedTask(t, b, 1)

	b.store.Users.With(1, func(u *models.User) {
		u.SetNotifications(true)
		u.SetSubcategory("Разработка", "Боты и парсинг данных", true)
	})
	b.store.Users.With(2, func(u *models.User) {
		// Subscribed to the leaf but notifications are off.
		u.SetSubcategory("Разработка", "Боты и парсинг данных", true)
	})
	b.store.Users.With(3, func(u *models.User) {
		// Notifying but subscribed to another leaf.
		u.SetNotifications(true)
		u.SetSubcategory("Разработка", "Бэкенд", true)
	})

	b.eventNewTask(task)
	b.notifyWG.Wait()

	msgs := rec.sent()
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one dispatch, got %d", len(msgs))
	}
	msg := msgs[0]
	if msg.ChatID != 1 {
		t.Fatalf("dispatched to %d, want 1", msg.ChatID)
	}
	for _, marker := range []string{"✅", "❔", "❌"} {
		if strings.Contains(msg.Text, marker) {
			t.Fatalf("notification carries urgency marker %q: %q", marker, msg.Text)
		}
	}
	if !strings.Contains(msg.Text, "Просмотров:") {
		t.Fatalf("notification is not the expanded form: %q", msg.Text)
	}
	if msg.ReplyMarkup == nil {
		t.Fatalf("notification has no card keyboard")
	}
}

func TestEventNewTaskNoSubscribersNoDispatch(t *testing.T) {
	b, rec := newTestBot(t)
	task := storedTask(t, b, 1)

	b.eventNewTask(task)
	b.notifyWG.Wait()

	if msgs := rec.sent(); len(msgs) != 0 {
		t.Fatalf("dispatched with no subscribers: %+v", msgs)
	}
}

func TestEventNewTaskUnsubscribesBlockedUser(t *testing.T) {
	b, rec := newTestBot(t)
	rec.err = &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}
	task := storedTask(t, b, 1)

	b.store.Users.With(1, func(u *models.User) {
		u.SetNotifications(true)
		u.SetSubcategory("Разработка", "Боты и парсинг данных", true)
	})

	b.eventNewTask(task)
	b.notifyWG.Wait()

	var notifying bool
	if !b.store.Users.Mutate(1, func(u *models.User) { notifying = u.HasNotifications }) {
		t.Fatalf("user vanished")
	}
	if notifying {
		t.Fatalf("blocked user must be auto-unsubscribed")
	}
}

func TestEventNewTaskOtherSendErrorKeepsSubscription(t *testing.T) {
	b, rec := newTestBot(t)
	rec.err = errors.New("connection reset")
	task := storedTask(t, b, 1)

	b.store.Users.With(1, func(u *models.User) {
		u.SetNotifications(true)
		u.SetSubcategory("Разработка", "Боты и парсинг данных", true)
	})

	b.eventNewTask(task)
	b.notifyWG.Wait()

	var notifying bool
	b.store.Users.Mutate(1, func(u *models.User) { notifying = u.HasNotifications })
	if !notifying {
		t.Fatalf("transient send error must not unsubscribe the user")
	}
}
