package presenter

import (
	"fmt"
	"io"
	"rssreader/internal/config"
	"rssreader/internal/domain"
)

// Presenter выводит ленту в заданном формате.
type Presenter interface {
	Present(w io.Writer, feed *domain.Feed) error
}

// New выбирает Presenter по формату из конфигурации:
// text - текстовый отчет, rss/atom/json - повторная сериализация ленты.
func New(cfg config.PresentConfig) (Presenter, error) {
	switch cfg.Format {
	case "", "text":
		return NewTextPresenter(cfg.StripHTML), nil
	case FormatRSS, FormatAtom, FormatJSON:
		return NewFeedPresenter(cfg.Format), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
}
