package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// ReadFeedUseCase реализует конвейер чтения ленты: загрузка, разбор и вывод.
// Сбой любой стадии прерывает конвейер; при ошибке ничего не выводится.
type ReadFeedUseCase struct {
	fetcher   FeedFetcher
	parser    FeedParser
	presenter FeedPresenter
	out       io.Writer
	dest      string
	log       *slog.Logger
}

// NewReadFeedUseCase создает конвейер. dest - файл, в который сохраняется загруженная лента.
func NewReadFeedUseCase(
	fetcher FeedFetcher,
	parser FeedParser,
	presenter FeedPresenter,
	out io.Writer,
	dest string,
	log *slog.Logger,
) *ReadFeedUseCase {
	return &ReadFeedUseCase{
		fetcher:   fetcher,
		parser:    parser,
		presenter: presenter,
		out:       out,
		dest:      dest,
		log:       log,
	}
}

// Run обрабатывает source. Если source - существующий локальный файл, он
// разбирается напрямую; иначе source считается URL и сначала загружается в dest.
func (uc *ReadFeedUseCase) Run(ctx context.Context, source string) error {
	start := time.Now()
	log := uc.log.With(
		slog.String("component", "reader"),
		slog.String("source", source),
	)

	path := source
	if isLocalFile(source) {
		log.Debug("Reading local file", slog.String("stage", "fetch"))
	} else {
		n, err := uc.fetcher.Download(ctx, source, uc.dest)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
		log.Debug("Feed downloaded",
			slog.String("stage", "fetch"),
			slog.String("path", uc.dest),
			slog.Int64("bytes", n),
		)
		path = uc.dest
	}

	feed, err := uc.parser.ParseFile(ctx, path)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	log.Debug("Feed parsed",
		slog.String("stage", "parse"),
		slog.Int("count", feed.ItemsCount()),
	)

	if err := uc.presenter.Present(uc.out, feed); err != nil {
		return fmt.Errorf("present failed: %w", err)
	}
	log.Info("Feed processed",
		slog.Int("items_found", feed.ItemsCount()),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func isLocalFile(source string) bool {
	info, err := os.Stat(source)
	return err == nil && info.Mode().IsRegular()
}
