package presenter

import (
	"bytes"
	"encoding/json"
	"rssreader/internal/adapter/parser"
	"rssreader/internal/config"
	"rssreader/internal/domain"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFeed() *domain.Feed {
	return &domain.Feed{
		Title:       "Example Feed",
		Description: "desc",
		Items: []domain.Item{
			{Title: "A", Link: "http://a", PubDate: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
			{Title: "B", Link: "http://b"},
		},
	}
}

func TestFeedPresenter_RSSRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFeedPresenter(FormatRSS).Present(&buf, sampleFeed()))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	got, err := parser.Extract(doc.Root())

	require.NoError(t, err)
	assert.Equal(t, "Example Feed", got.Title)
	assert.Equal(t, "desc", got.Description)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "A", got.Items[0].Title)
	assert.Equal(t, "http://a", got.Items[0].Link)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), got.Items[0].PubDate)
	assert.Equal(t, "B", got.Items[1].Title)
	assert.False(t, got.Items[1].HasPubDate())
}

func TestFeedPresenter_Atom(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFeedPresenter(FormatAtom).Present(&buf, sampleFeed()))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "feed", root.Tag)
	assert.Len(t, root.SelectElements("entry"), 2)
}

func TestFeedPresenter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFeedPresenter(FormatJSON).Present(&buf, sampleFeed()))

	var decoded struct {
		Title string `json:"title"`
		Items []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Example Feed", decoded.Title)
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, "A", decoded.Items[0].Title)
	assert.Equal(t, "http://a", decoded.Items[0].URL)
}

func TestNew(t *testing.T) {
	p, err := New(config.PresentConfig{Format: "text"})
	require.NoError(t, err)
	assert.IsType(t, &TextPresenter{}, p)

	p, err = New(config.PresentConfig{Format: "atom"})
	require.NoError(t, err)
	assert.IsType(t, &FeedPresenter{}, p)

	_, err = New(config.PresentConfig{Format: "yaml"})
	assert.Error(t, err)
}
