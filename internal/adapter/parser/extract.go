package parser

import (
	"fmt"
	"rssreader/internal/domain"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Extract строит Feed из дерева документа с корнем в элементе <rss>.
// Используется только первый <channel>; записей сохраняется не больше
// domain.MaxFeedItems, остальные молча отбрасываются. Отсутствующие или
// пустые элементы оставляют соответствующие поля незаданными.
// При ошибке структуры Feed не возвращается.
func Extract(root *etree.Element) (*domain.Feed, error) {
	feed, _, err := extract(root, domain.MaxFeedItems)
	return feed, err
}

// extract дополнительно возвращает количество отброшенных записей.
func extract(root *etree.Element, limit int) (*domain.Feed, int, error) {
	if root == nil {
		return nil, 0, fmt.Errorf("%w: empty document", domain.ErrStructure)
	}
	if !isElement(root, "rss") {
		return nil, 0, fmt.Errorf("%w: invalid RSS document, missing <rss> element", domain.ErrStructure)
	}
	var channel *etree.Element
	for _, el := range root.ChildElements() {
		if isElement(el, "channel") {
			channel = el
			break
		}
	}
	if channel == nil {
		return nil, 0, fmt.Errorf("%w: invalid RSS document, missing <channel> element", domain.ErrStructure)
	}

	feed := &domain.Feed{}
	items := domain.NewItemCollector(limit)
	for _, el := range channel.ChildElements() {
		switch {
		case isElement(el, "title"):
			feed.Title = textOf(el)
		case isElement(el, "description"):
			feed.Description = textOf(el)
		case isElement(el, "item"):
			items.Add(extractItem(el))
		}
	}
	feed.Items = items.Items()
	return feed, items.Dropped(), nil
}

func extractItem(itemEl *etree.Element) domain.Item {
	var item domain.Item
	for _, el := range itemEl.ChildElements() {
		switch {
		case isElement(el, "title"):
			item.Title = textOf(el)
		case isElement(el, "link"):
			item.Link = textOf(el)
		case isElement(el, "pubDate"):
			item.RawPubDate = textOf(el)
			// Некорректная дата не отменяет запись: PubDate остается незаданным.
			item.PubDate, _ = ParseRFC822Date(item.RawPubDate)
		}
	}
	return item
}

// isElement сравнивает локальное имя элемента без префикса пространства имен:
// <atom:link> и <media:title> не подменяют поля RSS.
func isElement(el *etree.Element, name string) bool {
	return el.Space == "" && el.Tag == name
}

func textOf(el *etree.Element) string {
	return strings.TrimSpace(el.Text())
}

// rfc822Layouts по числу полей: с днем недели и без. Названия дня и месяца
// допускаются как сокращенные, так и полные.
var rfc822Layouts = map[int][]string{
	5: {
		"Mon, 2 Jan 2006 15:04:05",
		"Monday, 2 Jan 2006 15:04:05",
		"Mon, 2 January 2006 15:04:05",
		"Monday, 2 January 2006 15:04:05",
	},
	4: {
		"2 Jan 2006 15:04:05",
		"2 January 2006 15:04:05",
	},
}

// ParseRFC822Date разбирает дату вида "Mon, 02 Jan 2006 15:04:05" как UTC.
// День недели необязателен, пробел после запятой тоже. Часовой пояс и любой
// текст после времени игнорируются.
// Для пустой или некорректной строки возвращает нулевое время и ошибку.
func ParseRFC822Date(raw string) (time.Time, error) {
	fields := strings.Fields(strings.Replace(raw, ",", ", ", 1))
	n := 4
	if len(fields) > 0 && strings.HasSuffix(fields[0], ",") {
		n = 5
	}
	if len(fields) < n {
		return time.Time{}, fmt.Errorf("malformed RFC-822 date %q", raw)
	}
	value := strings.Join(fields[:n], " ")
	var err error
	for _, layout := range rfc822Layouts[n] {
		var t time.Time
		if t, err = time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed RFC-822 date %q: %w", raw, err)
}
