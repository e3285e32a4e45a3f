package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Data        Data
	HTTP        HTTP
	League      League
	TelegramBot TelegramBot
	Scheduler   Scheduler
	Log         Log
	Build       Build
}

type Data struct {
	Bucket       string        `envconfig:"DATA_BUCKET"`
	BucketPrefix string        `envconfig:"DATA_BUCKET_PREFIX" default:"data"`
	Path         string        `envconfig:"DATA_PATH"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"10m"`
}

type HTTP struct {
	Port string `envconfig:"PORT" default:"8080"`
}

type League struct {
	Years []string `envconfig:"YEARS" default:"2024,2023,2022,2021"`
	// Divisions without data for a year, as year:div div ...
	Unavailable map[string]string `envconfig:"UNAVAILABLE_DIVISIONS" default:"2021:mcla1 mcla2"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

func (t TelegramBot) Enabled() bool {
	return t.Token != ""
}

type Scheduler struct {
	RefreshCron     string   `envconfig:"REFRESH_CRON" default:"*/10 * * * *"`
	DigestDivisions []string `envconfig:"DIGEST_DIVISIONS" default:"ml1,wl1,mcla1"`
	Location        string   `envconfig:"SCHEDULER_LOCATION" default:"America/Chicago"`
}

type Log struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

type Build struct {
	GitSHA      string `envconfig:"GIT_SHA" default:"unknown"`
	BuildTime   string `envconfig:"BUILD_TIME" default:"unknown"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
