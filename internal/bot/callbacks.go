package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"freelansim-bot/internal/models"
)

// handleCallback serves the inline expand/collapse buttons under task
// cards. Edits of a stale message are rejected by the transport; that is
// logged and otherwise ignored.
func (b *TelegramBot) handleCallback(callback *tgbotapi.CallbackQuery) {
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
			log.Printf("Failed to answer callback query: %v", err)
		}
	}()

	if callback.Message == nil {
		return
	}

	command, data, _ := strings.Cut(callback.Data, ":")
	if command != "full" && command != "short" {
		return
	}

	taskID, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		log.Printf("Bad callback data %q: %v", callback.Data, err)
		return
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	task, ok := b.store.Tasks.Get(taskID)
	if !ok {
		text := fmt.Sprintf("%s\n\n%s/%d", textTaskExpired, models.TasksURL, taskID)
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.deliver(edit); err != nil {
			log.Printf("Failed to edit expired task card: %v", err)
		}
		return
	}

	full := command == "full"
	keyboard := taskCardKeyboard(taskID, full)

	edit := tgbotapi.NewEditMessageText(chatID, messageID, task.FormatMessage(full, false))
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.DisableWebPagePreview = true
	edit.ReplyMarkup = &keyboard
	if _, err := b.deliver(edit); err != nil {
		log.Printf("Failed to edit task card %d: %v", taskID, err)
	}
}
