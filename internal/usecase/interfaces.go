package usecase

import (
	"context"
	"io"
	"rssreader/internal/domain"
)

// FeedFetcher определяет интерфейс загрузки RSS-ленты в локальный файл.
// Возвращает количество записанных байт.
type FeedFetcher interface {
	Download(ctx context.Context, url, dest string) (int64, error)
}

// FeedParser определяет интерфейс разбора RSS-документа из локального файла.
type FeedParser interface {
	ParseFile(ctx context.Context, path string) (*domain.Feed, error)
}

// FeedPresenter определяет интерфейс вывода ленты.
type FeedPresenter interface {
	Present(w io.Writer, feed *domain.Feed) error
}
