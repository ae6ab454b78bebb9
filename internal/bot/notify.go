package bot

import (
	"errors"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"freelansim-bot/internal/models"
)

// eventNewTask fans a new task out to every subscriber of its
// category/subcategory leaf. Deliveries run concurrently per recipient,
// bounded by the notification semaphore, so one slow or failing recipient
// never delays the rest; the WaitGroup lets Stop drain them.
func (b *TelegramBot) eventNewTask(task models.Task) {
	recipients := b.store.Users.Subscribers(task.CategoryName, task.SubCategoryName)
	if len(recipients) == 0 {
		return
	}

	text := task.FormatMessage(true, true)
	keyboard := taskCardKeyboard(task.ID, true)

	for _, chatID := range recipients {
		b.notifyWG.Add(1)
		go func(chatID int64) {
			defer b.notifyWG.Done()
			b.notifySem <- struct{}{}
			defer func() { <-b.notifySem }()

			msg := tgbotapi.NewMessage(chatID, text)
			msg.ParseMode = tgbotapi.ModeMarkdown
			msg.DisableWebPagePreview = true
			msg.ReplyMarkup = keyboard

			_, err := b.deliver(msg)
			if err == nil {
				return
			}
			if isBlockedByUser(err) {
				log.Printf("User %d blocked the bot, disabling notifications", chatID)
				b.store.Users.Mutate(chatID, func(u *models.User) {
					u.SetNotifications(false)
				})
				return
			}
			log.Printf("Failed to notify user %d about task %d: %v", chatID, task.ID, err)
		}(chatID)
	}
}

func isBlockedByUser(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 403
}
