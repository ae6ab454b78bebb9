package bot

import (
	"context"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"freelansim-bot/config"
	"freelansim-bot/internal/currency"
	"freelansim-bot/internal/fl"
	"freelansim-bot/internal/profile"
	"freelansim-bot/internal/scheduler"
	"freelansim-bot/internal/storage"
)

const (
	pollingJobTag     = "tasks_polling"
	autosaveJobTag    = "autosave"
	rateRefreshJobTag = "rate_refresh"
)

type TelegramBot struct {
	api       *tgbotapi.BotAPI
	cfg       *config.Config
	store     *storage.Storage
	client    *fl.Client
	converter *currency.Converter
	scheduler *scheduler.Scheduler
	session   *profile.Session

	ctx       context.Context
	notifyWG  sync.WaitGroup
	notifySem chan struct{}

	// deliver is the outbound transport call, b.api.Send in production.
	deliver func(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

func NewBot(
	ctx context.Context,
	cfg *config.Config,
	store *storage.Storage,
	client *fl.Client,
	converter *currency.Converter,
	appScheduler *scheduler.Scheduler,
	session *profile.Session,
) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.NotifyConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &TelegramBot{
		api:       api,
		cfg:       cfg,
		store:     store,
		client:    client,
		converter: converter,
		scheduler: appScheduler,
		session:   session,
		ctx:       ctx,
		notifySem: make(chan struct{}, concurrency),
		deliver:   api.Send,
	}, nil
}

// Start preloads the task table, schedules the background jobs and blocks on
// the update loop until the context is cancelled.
func (b *TelegramBot) Start() {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	if b.session != nil && b.session.Authorized() {
		// Same trick as a logged-in browser tab: listing and page
		// requests carry the account cookies.
		b.client.UseJar(b.session.Jar())
		log.Println("Marketplace requests use the authorized session")
	}

	b.initTasks(b.cfg.InitPages)

	b.scheduler.AddJob(pollingJobTag, b.cfg.PollInterval(), b.pollTasks)
	b.scheduler.AddJob(autosaveJobTag, b.cfg.SaveInterval(), func() {
		if err := b.store.Save(); err != nil {
			log.Printf("Autosave failed: %v", err)
		}
	})
	b.scheduler.AddJob(rateRefreshJobTag, time.Hour, func() {
		if err := b.converter.Refresh(b.ctx); err != nil {
			log.Printf("Rate refresh failed, keeping previous rate: %v", err)
		}
	})
	b.scheduler.Start()

	b.listenForUpdates()
}

func (b *TelegramBot) listenForUpdates() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-b.ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.CallbackQuery != nil {
				b.handleCallback(update.CallbackQuery)
				continue
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.handleMessage(update.Message)
		}
	}
}

// Stop drains the bot: no new updates, background jobs stopped, in-flight
// notifications joined, tables flushed synchronously.
func (b *TelegramBot) Stop() {
	b.api.StopReceivingUpdates()
	b.scheduler.Shutdown()
	b.notifyWG.Wait()
	if err := b.store.Save(); err != nil {
		log.Printf("Final save failed: %v", err)
	}
	log.Println("The final exit.")
}

type reply struct {
	text   string
	markup interface{}
}

func (b *TelegramBot) send(chatID int64, r reply) {
	msg := tgbotapi.NewMessage(chatID, r.text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if r.markup != nil {
		msg.ReplyMarkup = r.markup
	}
	if _, err := b.deliver(msg); err != nil {
		log.Printf("Failed to send message to %d: %v", chatID, err)
	}
}
