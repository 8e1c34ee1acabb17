package sources

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const nydailySourceID = "nydaily"

// nydailySource parses the NY Daily News listing pages.
type nydailySource struct {
	baseURL string
}

// NewNYDaily builds the NY Daily News source adapter.
func NewNYDaily(baseURL string) Source {
	return &nydailySource{baseURL: baseURL}
}

func (s *nydailySource) ID() string {
	return nydailySourceID
}

func (s *nydailySource) URL(page int) string {
	return s.baseURL + strconv.Itoa(page)
}

func (s *nydailySource) Articles(content []byte) ([]Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse nydaily page html: %w", err)
	}

	var articles []Article
	doc.Find("article").Each(func(_ int, sel *goquery.Selection) {
		articles = append(articles, sel)
	})
	return articles, nil
}

func (s *nydailySource) Headline(a Article) (string, bool) {
	sel, ok := a.(*goquery.Selection)
	if !ok {
		return "", false
	}
	node := sel.Find("a.article-title").First()
	if node.Length() == 0 {
		return "", false
	}
	title, ok := node.Attr("title")
	title = strings.TrimSpace(title)
	return title, ok && title != ""
}

func (s *nydailySource) Description(a Article) (string, bool) {
	sel, ok := a.(*goquery.Selection)
	if !ok {
		return "", false
	}
	node := sel.Find("div.excerpt").First()
	if node.Length() == 0 {
		return "", false
	}
	text := strings.TrimSpace(node.Text())
	return text, text != ""
}

func (s *nydailySource) Date(a Article) (string, bool) {
	sel, ok := a.(*goquery.Selection)
	if !ok {
		return "", false
	}
	node := sel.Find("time").First()
	if node.Length() == 0 {
		return "", false
	}
	raw, ok := node.Attr("datetime")
	if !ok {
		return "", false
	}
	date, err := normalizeDate(raw)
	if err != nil {
		return "", false
	}
	return date, true
}

func (s *nydailySource) Link(a Article) (string, bool) {
	sel, ok := a.(*goquery.Selection)
	if !ok {
		return "", false
	}
	node := sel.Find("a.article-title").First()
	if node.Length() == 0 {
		return "", false
	}
	href, ok := node.Attr("href")
	href = strings.TrimSpace(href)
	return href, ok && href != ""
}
