package presenter

import (
	"bufio"
	"io"
	"rssreader/internal/domain"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// TextPresenter печатает ленту как текстовый отчет:
//
//	Title
//	=====
//	Description
//
//	Item title
//	<link>
//	Mon Jan  2 15:04:05 2006
//
// Незаданные поля не печатаются. Время выводится в UTC в формате ctime.
type TextPresenter struct {
	stripHTML bool
}

func NewTextPresenter(stripHTML bool) *TextPresenter {
	return &TextPresenter{stripHTML: stripHTML}
}

func (p *TextPresenter) Present(w io.Writer, feed *domain.Feed) error {
	bw := bufio.NewWriter(w)
	if feed.Title != "" {
		bw.WriteString(feed.Title + "\n")
		bw.WriteString(strings.Repeat("=", utf8.RuneCountInString(feed.Title)) + "\n")
	}
	if desc := p.description(feed.Description); desc != "" {
		bw.WriteString(desc + "\n")
	}
	for _, item := range feed.Items {
		bw.WriteString("\n")
		if item.Title != "" {
			bw.WriteString(item.Title + "\n")
		}
		if item.Link != "" {
			bw.WriteString("<" + item.Link + ">\n")
		}
		if item.HasPubDate() {
			bw.WriteString(item.PubDate.UTC().Format(time.ANSIC) + "\n")
		}
	}
	return bw.Flush()
}

func (p *TextPresenter) description(desc string) string {
	if !p.stripHTML || !strings.ContainsAny(desc, "<&") {
		return desc
	}
	return htmlToText(desc)
}

// blockBreak отмечает границы блочных элементов до извлечения текста.
const blockBreak = "\uE000"

// htmlToText извлекает видимый текст из HTML-фрагмента.
// Текст без разметки только декодирует сущности и сохраняет переводы строк.
// В разметке пробелы схлопываются, а блочные элементы и <br> дают отдельные строки.
// Если фрагмент не разбирается, возвращается исходная строка.
func htmlToText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(doc.Text())
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml(blockBreak)
	doc.Find("p, div, li, tr, blockquote, pre, h1, h2, h3, h4, h5, h6").AfterHtml(blockBreak)

	var lines []string
	for _, part := range strings.Split(doc.Text(), blockBreak) {
		if line := strings.Join(strings.Fields(part), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
