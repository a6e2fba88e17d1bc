package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v3"
)

// EnvPrefix - префикс переменных окружения, например RSSREADER_TIMEOUT.
const EnvPrefix = "RSSREADER"

// Config представляет конфигурацию RSS-ридера.
// Содержит настройки логгера, загрузки и вывода.
type Config struct {
	Logger  LoggerConfig
	Fetch   FetchConfig
	Present PresentConfig
	// Source - URL ленты или путь к локальному файлу из позиционного аргумента.
	Source string
}

// LoggerConfig содержит настройки системы логирования.
// Level определяет уровень детализации логов (debug, info, warn, error).
// File, если задан, получает все записи ниже уровня error.
type LoggerConfig struct {
	Level string
	File  string
}

// FetchConfig содержит настройки загрузки ленты.
type FetchConfig struct {
	Output    string
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// PresentConfig содержит настройки вывода ленты.
type PresentConfig struct {
	Format    string
	StripHTML bool
}

// New создает новый экземпляр Config со значениями по умолчанию.
func New() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level: "error",
		},
		Fetch: FetchConfig{
			Output:    "rss.xml",
			Timeout:   30 * time.Second,
			UserAgent: "rssreader/1.0",
			MaxBytes:  10 << 20,
		},
		Present: PresentConfig{
			Format:    "text",
			StripHTML: true,
		},
	}
}

// Load разбирает аргументы командной строки, переменные окружения RSSREADER_*
// и необязательный файл конфигурации (-config). Флаги имеют приоритет над
// окружением, окружение - над файлом. Первый позиционный аргумент становится Source.
// Вывод справки направляется в usage.
func Load(args []string, usage io.Writer) (*Config, error) {
	cfg := New()
	fs := flag.NewFlagSet("rssreader", flag.ContinueOnError)
	fs.SetOutput(usage)
	fs.Usage = func() {
		fmt.Fprintf(usage, "Usage: %s [flags] <url|file>\n", fs.Name())
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Logger.Level, "log-level", cfg.Logger.Level, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.Logger.File, "log-file", cfg.Logger.File, "write non-error log records to this file")
	fs.StringVar(&cfg.Fetch.Output, "output", cfg.Fetch.Output, "file the downloaded feed is written to")
	fs.DurationVar(&cfg.Fetch.Timeout, "timeout", cfg.Fetch.Timeout, "HTTP request timeout")
	fs.StringVar(&cfg.Fetch.UserAgent, "user-agent", cfg.Fetch.UserAgent, "User-Agent header sent when downloading")
	fs.Int64Var(&cfg.Fetch.MaxBytes, "max-bytes", cfg.Fetch.MaxBytes, "maximum feed document size in bytes")
	fs.StringVar(&cfg.Present.Format, "format", cfg.Present.Format, "output format: text, rss, atom, json")
	fs.BoolVar(&cfg.Present.StripHTML, "strip-html", cfg.Present.StripHTML, "render HTML descriptions as plain text")
	_ = fs.String("config", "", "config file (plain 'key value' lines)")

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix(EnvPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		cfg.Source = strings.TrimSpace(fs.Arg(0))
	}
	return cfg, nil
}

// Validate проверяет корректность конфигурации.
// Возвращает ошибку с описанием первой найденной проблемы.
func (c *Config) Validate() error {
	switch c.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level %q", c.Logger.Level)
	}
	if c.Fetch.Output == "" {
		return fmt.Errorf("output must not be empty")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("timeout must be a positive duration")
	}
	if c.Fetch.MaxBytes <= 0 {
		return fmt.Errorf("max-bytes must be a positive number")
	}
	switch c.Present.Format {
	case "text", "rss", "atom", "json":
	default:
		return fmt.Errorf("invalid format %q", c.Present.Format)
	}
	return nil
}
