package sources

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const cbsSourceID = "cbs"

// cbsSource parses the CBS local-news listing pages.
type cbsSource struct {
	baseURL string
}

// NewCBS builds the CBS source adapter. baseURL is the paginated listing URL
// without the page index suffix.
func NewCBS(baseURL string) Source {
	return &cbsSource{baseURL: baseURL}
}

func (s *cbsSource) ID() string {
	return cbsSourceID
}

func (s *cbsSource) URL(page int) string {
	return s.baseURL + strconv.Itoa(page)
}

func (s *cbsSource) Articles(content []byte) ([]Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse cbs page html: %w", err)
	}

	var articles []Article
	doc.Find("article").Each(func(_ int, sel *goquery.Selection) {
		articles = append(articles, sel)
	})
	return articles, nil
}

func (s *cbsSource) Headline(a Article) (string, bool) {
	return cbsText(a, "h4.item__hed")
}

func (s *cbsSource) Description(a Article) (string, bool) {
	return cbsText(a, "p.item__dek")
}

func (s *cbsSource) Date(a Article) (string, bool) {
	raw, ok := cbsText(a, "li.item__date")
	if !ok {
		return "", false
	}
	date, err := normalizeDate(raw)
	if err != nil {
		return "", false
	}
	return date, true
}

func (s *cbsSource) Link(a Article) (string, bool) {
	sel, ok := a.(*goquery.Selection)
	if !ok {
		return "", false
	}
	node := sel.Find("a.item__anchor").First()
	if node.Length() == 0 {
		return "", false
	}
	return node.Attr("href")
}

func cbsText(a Article, selector string) (string, bool) {
	sel, ok := a.(*goquery.Selection)
	if !ok {
		return "", false
	}
	node := sel.Find(selector).First()
	if node.Length() == 0 {
		return "", false
	}
	text := strings.TrimSpace(node.Text())
	return text, text != ""
}
