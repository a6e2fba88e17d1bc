package presenter

import (
	"fmt"
	"io"
	"rssreader/internal/domain"

	"github.com/gorilla/feeds"
)

const (
	FormatRSS  = "rss"
	FormatAtom = "atom"
	FormatJSON = "json"
)

// FeedPresenter сериализует извлеченную ленту обратно в RSS 2.0, Atom или JSON Feed.
type FeedPresenter struct {
	format string
}

func NewFeedPresenter(format string) *FeedPresenter {
	return &FeedPresenter{format: format}
}

func (p *FeedPresenter) Present(w io.Writer, feed *domain.Feed) error {
	out := toFeed(feed)
	switch p.format {
	case FormatRSS:
		return out.WriteRss(w)
	case FormatAtom:
		return out.WriteAtom(w)
	case FormatJSON:
		return out.WriteJSON(w)
	default:
		return fmt.Errorf("unknown output format %q", p.format)
	}
}

// toFeed переводит domain.Feed в модель gorilla/feeds.
// Link у ленты и записей всегда не nil: этого требуют генераторы RSS и Atom.
func toFeed(feed *domain.Feed) *feeds.Feed {
	out := &feeds.Feed{
		Title:       feed.Title,
		Description: feed.Description,
		Link:        &feeds.Link{},
		Items:       make([]*feeds.Item, 0, len(feed.Items)),
	}
	for _, item := range feed.Items {
		out.Items = append(out.Items, &feeds.Item{
			Title:   item.Title,
			Link:    &feeds.Link{Href: item.Link},
			Id:      item.Link,
			Created: item.PubDate,
		})
		if item.PubDate.After(out.Updated) {
			out.Updated = item.PubDate
		}
	}
	return out
}
