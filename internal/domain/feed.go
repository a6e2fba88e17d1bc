package domain

import "time"

// MaxFeedItems is the maximum number of items kept per feed.
const MaxFeedItems = 25

// Item представляет отдельную запись в RSS-ленте.
// Пустая строка и нулевое время означают, что поле не задано.
type Item struct {
	Title   string
	Link    string
	PubDate time.Time
	// RawPubDate хранит исходный текст pubDate, даже если его не удалось разобрать.
	RawPubDate string
}

// HasPubDate reports whether the publication time is set.
func (i Item) HasPubDate() bool {
	return !i.PubDate.IsZero()
}

// Feed представляет канал RSS-ленты с метаданными и списком записей.
type Feed struct {
	Title       string
	Description string
	Items       []Item
}

// ItemsCount возвращает количество записей в ленте.
func (f *Feed) ItemsCount() int {
	return len(f.Items)
}
