package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"rssreader/internal/domain"
	"strings"

	"github.com/beevik/etree"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
)

// XMLParser читает RSS-документ в дерево элементов и извлекает из него Feed.
type XMLParser struct {
	log      *slog.Logger
	maxBytes int64
}

// NewXMLParser создает парсер. Документы больше maxBytes отклоняются.
func NewXMLParser(log *slog.Logger, maxBytes int64) *XMLParser {
	return &XMLParser{
		log:      log.With(slog.String("component", "parser")),
		maxBytes: maxBytes,
	}
}

// Parse реализует метод интерфейса FeedParser.
func (p *XMLParser) Parse(ctx context.Context, reader io.Reader) (*domain.Feed, error) {
	const op = "parser.Parse"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := p.log.With(slog.String("op", op))

	data, err := io.ReadAll(io.LimitReader(reader, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read document: %v", domain.ErrStructure, err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", domain.ErrAllocation, p.maxBytes)
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, withFeedType(fmt.Errorf("%w: unable to parse document: %v", domain.ErrStructure, err), data)
	}
	if err := checkSingleRoot(doc); err != nil {
		return nil, err
	}

	feed, dropped, err := extract(doc.Root(), domain.MaxFeedItems)
	if err != nil {
		return nil, withFeedType(err, data)
	}

	for _, item := range feed.Items {
		if item.RawPubDate != "" && !item.HasPubDate() {
			log.Warn("Could not parse item pubDate, leaving it unset",
				slog.String("pubDate", item.RawPubDate),
				slog.String("item_title", item.Title),
			)
		}
	}
	log.Debug("Feed extracted",
		slog.String("title", feed.Title),
		slog.Int("count", feed.ItemsCount()),
		slog.Int("dropped", dropped),
	)
	return feed, nil
}

// ParseFile открывает локальный файл и разбирает его через Parse.
func (p *XMLParser) ParseFile(ctx context.Context, path string) (*domain.Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %q: %v", domain.ErrStructure, path, err)
	}
	defer f.Close()
	return p.Parse(ctx, f)
}

// checkSingleRoot отклоняет документ с несколькими корневыми элементами
// или с текстом вне корневого элемента: etree прекращает разбор на первом
// закрытом корне и не проверяет остаток.
func checkSingleRoot(doc *etree.Document) error {
	if n := len(doc.ChildElements()); n > 1 {
		return fmt.Errorf("%w: unable to parse document: %d root elements", domain.ErrStructure, n)
	}
	for _, tok := range doc.Child {
		if cd, ok := tok.(*etree.CharData); ok && strings.TrimSpace(cd.Data) != "" {
			return fmt.Errorf("%w: unable to parse document: extra content outside the root element", domain.ErrStructure)
		}
	}
	return nil
}

// withFeedType дополняет ошибку структуры названием диалекта ленты,
// если документ оказался Atom или JSON Feed.
func withFeedType(err error, data []byte) error {
	switch gofeed.DetectFeedType(bytes.NewReader(data)) {
	case gofeed.FeedTypeAtom:
		return fmt.Errorf("%w (document looks like an Atom feed)", err)
	case gofeed.FeedTypeJSON:
		return fmt.Errorf("%w (document looks like a JSON feed)", err)
	default:
		return err
	}
}
