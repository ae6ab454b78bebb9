package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"freelansim-bot/internal/models"
)

const deepLinkPrefix = "taskId_"

// handleMessage routes one inbound message: refresh the sender's profile
// (creating the user on first sight), run commands or the page-specific
// handler, then send every reply it produced. All user mutation happens
// inside the table lock; sending happens after it is released. Table-wide
// commands (/tasks, /stats) read the user table themselves, so their replies
// are formatted on a private copy after the lock is released: the RWMutex
// is not reentrant.
func (b *TelegramBot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var replies []reply
	var snap models.User
	tableCommand := false
	b.store.Users.With(chatID, func(u *models.User) {
		u.UpdateProfile(models.Profile{
			FirstName:    msg.From.FirstName,
			LastName:     msg.From.LastName,
			Username:     msg.From.UserName,
			IsBot:        msg.From.IsBot,
			LanguageCode: msg.From.LanguageCode,
		})

		if !msg.IsCommand() {
			replies = b.route(u, msg.Text)
			return
		}

		if msg.Command() == "start" {
			args := msg.CommandArguments()
			if strings.HasPrefix(args, deepLinkPrefix) {
				replies = b.taskCard(strings.TrimPrefix(args, deepLinkPrefix))
				return
			}
			replies = b.route(u, msg.Text)
			return
		}

		snap = u.Clone()
		tableCommand = true
	})

	if tableCommand {
		replies = b.handleCommand(&snap, msg)
	}

	for _, r := range replies {
		b.send(chatID, r)
	}
}

// handleCommand renders the table-wide commands. It runs outside the user
// table lock on a copy of the sender; commands never change the current
// page.
func (b *TelegramBot) handleCommand(u *models.User, msg *tgbotapi.Message) []reply {
	switch msg.Command() {
	case "tasks":
		return []reply{{text: b.formatTasksList(), markup: mainMenuKeyboard(u)}}
	case "stats":
		return []reply{{text: b.formatStats(), markup: mainMenuKeyboard(u)}}
	default:
		return nil
	}
}

// taskCard renders the deep-link target: the full card for a known task, an
// expiry note with the canonical URL for an evicted one.
func (b *TelegramBot) taskCard(rawID string) []reply {
	taskID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return []reply{{text: textBadTaskID}}
	}

	task, ok := b.store.Tasks.Get(taskID)
	if !ok {
		return []reply{{text: fmt.Sprintf("%s\n\n%s/%d", textTaskExpired, models.TasksURL, taskID)}}
	}

	keyboard := taskCardKeyboard(task.ID, true)
	return []reply{{text: task.FormatMessage(true, false), markup: keyboard}}
}

// route drives the conversation state machine: the user's current page
// picks the handler, the handler mutates the user and returns the outbound
// replies, each with a page-appropriate keyboard.
func (b *TelegramBot) route(u *models.User, text string) []reply {
	base, param := models.SplitPage(u.Page)

	switch base {
	case models.PageStart:
		u.SetPage(models.PageMain)
		return []reply{{text: textStart}, b.renderMain(u)}
	case models.PageMain:
		return b.routeMain(u, text)
	case models.PageAutoAnswer:
		return b.routeAutoAnswer(u, text)
	case models.PageChooseCategory:
		return b.routeChooseCategory(u, text)
	case models.PageChooseSubcategory:
		return b.routeChooseSubcategory(u, text)
	case models.PageChooseSubSubcategory:
		return b.routeChooseSubSubcategory(u, param, text)
	default:
		// A page value from an older build; recover to the main state.
		u.SetPage(models.PageMain)
		return []reply{b.renderMain(u)}
	}
}

func (b *TelegramBot) renderMain(u *models.User) reply {
	return reply{text: textMain, markup: mainMenuKeyboard(u)}
}

func (b *TelegramBot) routeMain(u *models.User, text string) []reply {
	switch text {
	case btnTaskList:
		return []reply{{text: b.formatTasksList(), markup: mainMenuKeyboard(u)}}
	case btnNotifyOn:
		u.SetNotifications(true)
		return []reply{{text: textNotificationsOn, markup: mainMenuKeyboard(u)}}
	case btnNotifyOff:
		u.SetNotifications(false)
		return []reply{{text: textNotificationsOff, markup: mainMenuKeyboard(u)}}
	case btnChooseCategories:
		u.SetPage(models.PageChooseCategory)
		return []reply{{text: textChooseCategory, markup: chooseCategoryKeyboard(u)}}
	default:
		return []reply{b.renderMain(u)}
	}
}

func (b *TelegramBot) routeAutoAnswer(u *models.User, text string) []reply {
	switch text {
	case btnBack:
		u.SetPage(models.PageMain)
		return []reply{b.renderMain(u)}
	case btnAutoAnswerOn:
		// Answers are posted through the site session; without one the
		// flag would promise something the bot cannot do.
		if b.session == nil || !b.session.Authorized() {
			return []reply{{text: textUnavailable, markup: autoAnswerKeyboard(u)}}
		}
		u.SetAutoAnswer(true)
		return []reply{{text: textAutoAnswerOn, markup: autoAnswerKeyboard(u)}}
	case btnAutoAnswerOff:
		u.SetAutoAnswer(false)
		return []reply{{text: textAutoAnswerOff, markup: autoAnswerKeyboard(u)}}
	case btnCookiesExample:
		return []reply{{text: textUnavailable, markup: autoAnswerKeyboard(u)}}
	default:
		text := textAutoAnswerOff
		if u.AutoAnswer {
			text = textAutoAnswerOn
		}
		return []reply{{text: text, markup: autoAnswerKeyboard(u)}}
	}
}

func (b *TelegramBot) routeChooseCategory(u *models.User, text string) []reply {
	switch {
	case text == btnBack:
		u.SetPage(models.PageMain)
		return []reply{b.renderMain(u)}
	case text == btnNext:
		u.SetPage(models.PageChooseSubcategory)
		return []reply{{text: textChooseSubcategory, markup: chooseSubcategoryKeyboard(u)}}
	case strings.HasPrefix(text, markerOff):
		name := strings.TrimPrefix(text, markerOff)
		u.SetCategory(name, true)
		return []reply{{text: fmt.Sprintf(textCategoryOn, name), markup: chooseCategoryKeyboard(u)}}
	case strings.HasPrefix(text, markerOn):
		name := strings.TrimPrefix(text, markerOn)
		u.SetCategory(name, false)
		return []reply{{text: fmt.Sprintf(textCategoryOff, name), markup: chooseCategoryKeyboard(u)}}
	default:
		return []reply{{text: textChooseCategory, markup: chooseCategoryKeyboard(u)}}
	}
}

func (b *TelegramBot) routeChooseSubcategory(u *models.User, text string) []reply {
	switch {
	case text == btnBack:
		u.SetPage(models.PageChooseCategory)
		return []reply{{text: textChooseCategory, markup: chooseCategoryKeyboard(u)}}
	case text == btnDone:
		u.SetPage(models.PageMain)
		return []reply{b.renderMain(u)}
	case strings.HasPrefix(text, subcategoryBtnPrefix):
		name := strings.TrimSuffix(strings.TrimPrefix(text, subcategoryBtnPrefix), subcategoryBtnSuffix)
		// The keyboard only offers active categories, but the user may tap
		// a button from a stale keyboard after unsubscribing.
		if !u.CategoryActive(name) {
			return []reply{{text: textChooseSubcategory, markup: chooseSubcategoryKeyboard(u)}}
		}
		u.SetPage(models.JoinPage(models.PageChooseSubSubcategory, name))
		return []reply{{text: textChooseSubSubcategory, markup: chooseSubSubcategoryKeyboard(u, name)}}
	default:
		return []reply{{text: textChooseSubcategory, markup: chooseSubcategoryKeyboard(u)}}
	}
}

func (b *TelegramBot) routeChooseSubSubcategory(u *models.User, category, text string) []reply {
	switch {
	case text == btnDone:
		u.SetPage(models.PageChooseSubcategory)
		return []reply{{text: textChooseSubcategory, markup: chooseSubcategoryKeyboard(u)}}
	case strings.HasPrefix(text, markerOff):
		name := strings.TrimPrefix(text, markerOff)
		u.SetSubcategory(category, name, true)
		return []reply{{text: fmt.Sprintf(textSubcategoryOn, name), markup: chooseSubSubcategoryKeyboard(u, category)}}
	case strings.HasPrefix(text, markerOn):
		name := strings.TrimPrefix(text, markerOn)
		u.SetSubcategory(category, name, false)
		return []reply{{text: fmt.Sprintf(textSubcategoryOff, name), markup: chooseSubSubcategoryKeyboard(u, category)}}
	default:
		return []reply{{text: textChooseSubSubcategory, markup: chooseSubSubcategoryKeyboard(u, category)}}
	}
}

// formatTasksList renders the fifteen freshest tasks with a deep link into
// the chat and a site link.
func (b *TelegramBot) formatTasksList() string {
	tasks := b.store.Tasks.Recent(15)

	var sb strings.Builder
	for _, task := range tasks {
		title := strings.NewReplacer("[", "", "]", "").Replace(task.Title)
		date := task.Date
		if date == "0 мин." {
			date = "Только что"
		}
		fmt.Fprintf(&sb, "*%s*\n%s | %s\n[Открыть](https://t.me/%s?start=%s%d) • [На сайте](%s)\n\n",
			title, task.FormatPrice(true), date,
			b.api.Self.UserName, deepLinkPrefix, task.ID, task.URL)
	}
	return sb.String()
}

func (b *TelegramBot) formatStats() string {
	return fmt.Sprintf(
		"*Статистика бота*\n\nЗагруженных задач: *%d*\nПользователей: *%d*\nПодписок на уведомления: *%d*",
		b.store.Tasks.Len(), b.store.Users.Len(), b.store.Users.CountNotifying(),
	)
}
