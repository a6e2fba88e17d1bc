package parser

import (
	"errors"
	"fmt"
	"rssreader/internal/domain"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRoot(t *testing.T, xmlData string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xmlData))
	return doc.Root()
}

func rssWithItems(n int) string {
	var b strings.Builder
	b.WriteString("<rss version=\"2.0\"><channel><title>Many</title>")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "<item><title>Item %d</title><link>http://example.com/%d</link></item>", i, i)
	}
	b.WriteString("</channel></rss>")
	return b.String()
}

func TestExtract_Example(t *testing.T) {
	root := mustRoot(t, `
	<rss version="2.0">
	<channel>
	<title>Example Feed</title>
	<description>desc</description>
	<item><title>A</title><link>http://a</link></item>
	<item><title>B</title><link>http://b</link></item>
	</channel>
	</rss>`)

	feed, err := Extract(root)

	require.NoError(t, err)
	assert.Equal(t, &domain.Feed{
		Title:       "Example Feed",
		Description: "desc",
		Items: []domain.Item{
			{Title: "A", Link: "http://a"},
			{Title: "B", Link: "http://b"},
		},
	}, feed)
}

func TestExtract_ItemsUpToCapKeepOrder(t *testing.T) {
	for _, n := range []int{0, 1, 24, 25} {
		t.Run(fmt.Sprintf("%d items", n), func(t *testing.T) {
			feed, err := Extract(mustRoot(t, rssWithItems(n)))
			require.NoError(t, err)
			require.Equal(t, n, feed.ItemsCount())
			for i, item := range feed.Items {
				assert.Equal(t, fmt.Sprintf("Item %d", i), item.Title)
			}
		})
	}
}

func TestExtract_ItemsBeyondCapDropped(t *testing.T) {
	feed, dropped, err := extract(mustRoot(t, rssWithItems(40)), domain.MaxFeedItems)

	require.NoError(t, err)
	assert.Equal(t, domain.MaxFeedItems, feed.ItemsCount())
	assert.Equal(t, 15, dropped)
	assert.Equal(t, "Item 0", feed.Items[0].Title)
	assert.Equal(t, "Item 24", feed.Items[24].Title)
}

func TestExtract_StructureErrors(t *testing.T) {
	tests := []struct {
		name   string
		xml    string
		errMsg string
	}{
		{"not rss", `<feed><title>Atom</title></feed>`, "missing <rss> element"},
		{"no channel", `<rss><title>No channel</title></rss>`, "missing <channel> element"},
		{"prefixed channel", `<rss xmlns:x="urn:x"><x:channel/></rss>`, "missing <channel> element"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed, err := Extract(mustRoot(t, tt.xml))
			assert.Nil(t, feed)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrStructure))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestExtract_NilRoot(t *testing.T) {
	feed, err := Extract(nil)
	assert.Nil(t, feed)
	assert.ErrorIs(t, err, domain.ErrStructure)
}

func TestExtract_MissingFieldsStayUnset(t *testing.T) {
	feed, err := Extract(mustRoot(t, `
	<rss><channel>
	<item><link>http://only-link</link></item>
	<item><title>Only title</title></item>
	<item><title></title><link/></item>
	</channel></rss>`))

	require.NoError(t, err)
	require.Len(t, feed.Items, 3)
	assert.Empty(t, feed.Title)
	assert.Empty(t, feed.Description)

	assert.Empty(t, feed.Items[0].Title)
	assert.Equal(t, "http://only-link", feed.Items[0].Link)
	assert.False(t, feed.Items[0].HasPubDate())

	assert.Equal(t, "Only title", feed.Items[1].Title)
	assert.Empty(t, feed.Items[1].Link)

	assert.Equal(t, domain.Item{}, feed.Items[2])
}

func TestExtract_LastOccurrenceWins(t *testing.T) {
	feed, err := Extract(mustRoot(t, `
	<rss><channel>
	<title>First</title>
	<description>one</description>
	<title>Second</title>
	<description>two</description>
	</channel></rss>`))

	require.NoError(t, err)
	assert.Equal(t, "Second", feed.Title)
	assert.Equal(t, "two", feed.Description)
}

func TestExtract_FirstChannelOnly(t *testing.T) {
	feed, err := Extract(mustRoot(t, `
	<rss>
	<channel><title>One</title></channel>
	<channel><title>Two</title></channel>
	</rss>`))

	require.NoError(t, err)
	assert.Equal(t, "One", feed.Title)
}

func TestExtract_IgnoresNamespacedElements(t *testing.T) {
	feed, err := Extract(mustRoot(t, `
	<rss xmlns:atom="http://www.w3.org/2005/Atom" xmlns:media="http://search.yahoo.com/mrss/">
	<channel>
	<title>Feed</title>
	<atom:link href="http://example.com/rss" rel="self"/>
	<item>
	<title>Real title</title>
	<media:title>Media title</media:title>
	<link>http://example.com/1</link>
	<atom:link href="http://other"/>
	</item>
	</channel>
	</rss>`))

	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "Real title", feed.Items[0].Title)
	assert.Equal(t, "http://example.com/1", feed.Items[0].Link)
}

func TestExtract_CDATAText(t *testing.T) {
	feed, err := Extract(mustRoot(t, `<rss><channel><description><![CDATA[<p>Hello</p>]]></description></channel></rss>`))
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", feed.Description)
}

func TestExtract_PubDate(t *testing.T) {
	feed, err := Extract(mustRoot(t, `
	<rss><channel>
	<item><title>Good</title><pubDate>Tue, 10 Jun 2003 04:00:00 GMT</pubDate></item>
	<item><title>Bad</title><pubDate>yesterday</pubDate></item>
	<item><title>None</title></item>
	</channel></rss>`))

	require.NoError(t, err)
	require.Len(t, feed.Items, 3)

	assert.True(t, feed.Items[0].HasPubDate())
	assert.Equal(t, time.Date(2003, 6, 10, 4, 0, 0, 0, time.UTC), feed.Items[0].PubDate)

	assert.False(t, feed.Items[1].HasPubDate())
	assert.Equal(t, "yesterday", feed.Items[1].RawPubDate)

	assert.False(t, feed.Items[2].HasPubDate())
	assert.Empty(t, feed.Items[2].RawPubDate)
}

func TestParseRFC822Date(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"Mon, 02 Jan 2006 15:04:05 MST", time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"Tue, 10 Jun 2003 04:00:00 +0200", time.Date(2003, 6, 10, 4, 0, 0, 0, time.UTC)},
		{"Sat, 7 Sep 2002 00:00:01", time.Date(2002, 9, 7, 0, 0, 1, 0, time.UTC)},
		{"  Wed, 31 Dec 2025 23:59:59 GMT  ", time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"07 Sep 2002 09:42:31 GMT", time.Date(2002, 9, 7, 9, 42, 31, 0, time.UTC)},
		{"Tuesday, 10 Jun 2003 04:00:00", time.Date(2003, 6, 10, 4, 0, 0, 0, time.UTC)},
		{"Tue, 10 June 2003 04:00:00", time.Date(2003, 6, 10, 4, 0, 0, 0, time.UTC)},
		{"Tue,10 Jun 2003 04:00:00", time.Date(2003, 6, 10, 4, 0, 0, 0, time.UTC)},
		{"10 September 2002 08:00:00 GMT", time.Date(2002, 9, 10, 8, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRFC822Date(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRFC822Date_Malformed(t *testing.T) {
	for _, raw := range []string{"", "Mon,", "2006-01-02T15:04:05Z", "Mon, 32 Jan 2006 10:00:00", "Mon, 02 Foo 2006 10:00:00"} {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseRFC822Date(raw)
			assert.Error(t, err)
			assert.True(t, got.IsZero())
		})
	}
}
