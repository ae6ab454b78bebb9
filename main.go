package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"freelansim-bot/config"
	"freelansim-bot/internal/bot"
	"freelansim-bot/internal/currency"
	"freelansim-bot/internal/fl"
	"freelansim-bot/internal/profile"
	"freelansim-bot/internal/scheduler"
	"freelansim-bot/internal/storage"
)

func main() {
	log.Println("Starting Freelansim Bot...")

	cfg := config.LoadConfig()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := storage.NewStorage(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	store.Load()

	converter := currency.NewConverter(cfg.CurrencyRateURL, cfg.HTTPTimeout())
	if err := converter.Refresh(ctx); err != nil {
		log.Fatalf("Failed to fetch exchange rate: %v", err)
	}
	log.Printf("Exchange rate loaded: %.2f RUB per USD", converter.Rate())

	client := fl.NewClient(cfg.MarketplaceRootURL, cfg.TasksPerPage, cfg.HTTPTimeout(), converter)

	session, err := profile.NewSession(cfg.MarketplaceRootURL, cfg.HTTPTimeout())
	if err != nil {
		log.Fatalf("Failed to create marketplace session: %v", err)
	}
	if _, err := os.Stat(cfg.CookiesPath); err == nil {
		session.LoadCookies(ctx, cfg.CookiesPath)
	} else {
		log.Println("No cookies file found, auto answers stay disabled")
	}

	appScheduler, err := scheduler.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	telegramBot, err := bot.NewBot(ctx, &cfg, store, client, converter, appScheduler, session)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	telegramBot.Start()

	// Start returns once the context is cancelled.
	telegramBot.Stop()
}
