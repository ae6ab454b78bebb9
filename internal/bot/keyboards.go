package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"freelansim-bot/internal/models"
)

func mainMenuKeyboard(u *models.User) tgbotapi.ReplyKeyboardMarkup {
	notify := btnNotifyOn
	if u.HasNotifications {
		notify = btnNotifyOff
	}
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnTaskList)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnChooseCategories)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(notify)),
	)
}

func autoAnswerKeyboard(u *models.User) tgbotapi.ReplyKeyboardMarkup {
	toggle := btnAutoAnswerOn
	if u.AutoAnswer {
		toggle = btnAutoAnswerOff
	}
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(toggle)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCookiesExample)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
}

func chooseCategoryKeyboard(u *models.User) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton

	for _, category := range models.CategoryNames() {
		marker := markerOff
		if u.CategoryActive(category) {
			marker = markerOn
		}
		row = append(row, tgbotapi.NewKeyboardButton(marker+category))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnBack),
		tgbotapi.NewKeyboardButton(btnNext),
	))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func chooseSubcategoryKeyboard(u *models.User) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	for _, category := range models.CategoryNames() {
		if !u.CategoryActive(category) {
			continue
		}
		label := fmt.Sprintf("%s%s%s", subcategoryBtnPrefix, category, subcategoryBtnSuffix)
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label)))
	}

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnBack),
		tgbotapi.NewKeyboardButton(btnDone),
	))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func chooseSubSubcategoryKeyboard(u *models.User, category string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton

	for _, sub := range models.SubcategoryNames(category) {
		marker := markerOff
		if u.SubscribedTo(category, sub) {
			marker = markerOn
		}
		row = append(row, tgbotapi.NewKeyboardButton(marker+sub))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnDone)))
	return tgbotapi.NewReplyKeyboard(rows...)
}

// taskCardKeyboard is the inline expand/collapse control under a task card.
func taskCardKeyboard(taskID int64, full bool) tgbotapi.InlineKeyboardMarkup {
	if full {
		return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnHide, fmt.Sprintf("short:%d", taskID)),
			tgbotapi.NewInlineKeyboardButtonData(btnRefresh, fmt.Sprintf("full:%d", taskID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(btnShowFull, fmt.Sprintf("full:%d", taskID)),
	))
}
