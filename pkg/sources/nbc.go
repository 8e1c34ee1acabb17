package sources

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const nbcSourceID = "nbc"

// nbcSource parses the NBC section feed, which ships article records as JSON
// rather than markup.
type nbcSource struct {
	baseURL string
}

// NewNBC builds the NBC source adapter.
func NewNBC(baseURL string) Source {
	return &nbcSource{baseURL: baseURL}
}

type nbcFeed struct {
	TemplateItems struct {
		Items []nbcItem `json:"items"`
	} `json:"template_items"`
}

type nbcItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Date    string `json:"date"`
	Link    string `json:"link"`
}

func (s *nbcSource) ID() string {
	return nbcSourceID
}

func (s *nbcSource) URL(page int) string {
	return s.baseURL + strconv.Itoa(page)
}

func (s *nbcSource) Articles(content []byte) ([]Article, error) {
	var feed nbcFeed
	if err := json.Unmarshal(content, &feed); err != nil {
		return nil, fmt.Errorf("decode nbc feed json: %w", err)
	}

	articles := make([]Article, 0, len(feed.TemplateItems.Items))
	for _, item := range feed.TemplateItems.Items {
		articles = append(articles, item)
	}
	return articles, nil
}

func (s *nbcSource) Headline(a Article) (string, bool) {
	item, ok := a.(nbcItem)
	if !ok {
		return "", false
	}
	title := strings.TrimSpace(item.Title)
	return title, title != ""
}

func (s *nbcSource) Description(a Article) (string, bool) {
	item, ok := a.(nbcItem)
	if !ok {
		return "", false
	}
	// Summaries carry embedded markup in the feed.
	summary := strings.TrimSpace(stripTags(item.Summary))
	return summary, summary != ""
}

func (s *nbcSource) Date(a Article) (string, bool) {
	item, ok := a.(nbcItem)
	if !ok {
		return "", false
	}
	date, err := normalizeDate(item.Date)
	if err != nil {
		return "", false
	}
	return date, true
}

func (s *nbcSource) Link(a Article) (string, bool) {
	item, ok := a.(nbcItem)
	if !ok {
		return "", false
	}
	link := strings.TrimSpace(item.Link)
	return link, link != ""
}
