package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`

	MarketplaceRootURL string `envconfig:"MARKETPLACE_ROOT_URL" default:"https://freelansim.ru"`
	CurrencyRateURL    string `envconfig:"CURRENCY_RATE_URL" default:"https://api.exchangerate-api.com/v4/latest/USD"`

	DataDir     string `envconfig:"DATA_DIR" default:"data"`
	CookiesPath string `envconfig:"COOKIES_PATH" default:"cookies.json"`

	InitPages           int `envconfig:"INIT_PAGES" default:"10"`
	TasksPerPage        int `envconfig:"TASKS_PER_PAGE" default:"50"`
	PollIntervalSeconds int `envconfig:"POLL_INTERVAL_SECONDS" default:"10"`
	SaveIntervalSeconds int `envconfig:"SAVE_INTERVAL_SECONDS" default:"60"`
	HTTPTimeoutSeconds  int `envconfig:"HTTP_TIMEOUT_SECONDS" default:"30"`
	NotifyConcurrency   int `envconfig:"NOTIFY_CONCURRENCY" default:"16"`
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config
	err = envconfig.Process("", &cfg)
	if err != nil {
		log.Fatalf("Failed to process configuration: %v", err)
	}

	return cfg
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c Config) SaveInterval() time.Duration {
	return time.Duration(c.SaveIntervalSeconds) * time.Second
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
