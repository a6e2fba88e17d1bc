package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"rssreader/internal/adapter/fetcher"
	"rssreader/internal/adapter/parser"
	"rssreader/internal/adapter/presenter"
	"rssreader/internal/config"
	"rssreader/internal/logger"
	"rssreader/internal/usecase"
)

const (
	ExitOK      = 0
	ExitFailure = 1
)

// App связывает компоненты RSS-ридера: логгер, загрузчик, парсер и вывод.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	reader   *usecase.ReadFeedUseCase
	closeLog func() error
}

// New создает приложение по конфигурации. Результат выводится в stdout,
// диагностика - в stderr.
func New(cfg *config.Config, stdout, stderr io.Writer) (*App, error) {
	appLogger, closeLog, err := logger.New(cfg.Logger, stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	feedPresenter, err := presenter.New(cfg.Present)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("bad init app: %w", err)
	}
	httpFetcher := fetcher.NewHTTPFetcher(cfg.Fetch, appLogger)
	xmlParser := parser.NewXMLParser(appLogger, cfg.Fetch.MaxBytes)
	reader := usecase.NewReadFeedUseCase(httpFetcher, xmlParser, feedPresenter, stdout, cfg.Fetch.Output, appLogger)
	return &App{
		config:   cfg,
		logger:   appLogger,
		reader:   reader,
		closeLog: closeLog,
	}, nil
}

// Run читает ленту из source (URL или локальный файл) и выводит её.
func (a *App) Run(ctx context.Context, source string) error {
	a.logger.Debug("Starting RSS reader",
		slog.String("component", "app"),
		slog.String("source", source),
		slog.String("format", a.config.Present.Format),
	)
	return a.reader.Run(ctx, source)
}

// Close освобождает ресурсы приложения.
func (a *App) Close() error {
	return a.closeLog()
}

// Main разбирает аргументы, запускает приложение и возвращает код завершения:
// 0 - успех или вызов без аргументов, 1 - ошибка загрузки, разбора или конфигурации.
// При ошибке в stderr выводится одна строка диагностики, в stdout - ничего.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	}
	if cfg.Source == "" {
		fmt.Fprintln(stdout, "Usage: rssreader [flags] <url|file>")
		return ExitOK
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: invalid config: %v\n", err)
		return ExitFailure
	}
	a, err := New(cfg, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	}
	defer a.Close()

	if err := a.Run(ctx, cfg.Source); err != nil {
		a.logger.Error("Feed reading failed",
			slog.String("component", "app"),
			slog.Any("error", err),
		)
		return ExitFailure
	}
	return ExitOK
}
