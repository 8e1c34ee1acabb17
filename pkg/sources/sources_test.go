package sources

import (
	"testing"
	"time"
)

const cbsFixture = `
<html><body>
<article>
  <h4 class="item__hed">Brooklyn warehouse fire contained</h4>
  <p class="item__dek">Firefighters battled the blaze for six hours</p>
  <ul><li class="item__date">2024-03-01T08:30:00</li></ul>
  <a class="item__anchor" href="https://cbs.test/brooklyn-fire">read</a>
</article>
<article>
  <h4 class="item__hed">Headline without description</h4>
</article>
</body></html>`

func TestCBSSource(t *testing.T) {
	src := NewCBS("https://cbs.test/local/")

	if got := src.URL(2); got != "https://cbs.test/local/2" {
		t.Errorf("URL(2) = %q", got)
	}

	articles, err := src.Articles([]byte(cbsFixture))
	if err != nil {
		t.Fatalf("Articles returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("parsed %d articles, want 2", len(articles))
	}

	headline, ok := src.Headline(articles[0])
	if !ok || headline != "Brooklyn warehouse fire contained" {
		t.Errorf("headline = %q, ok=%v", headline, ok)
	}
	description, ok := src.Description(articles[0])
	if !ok || description != "Firefighters battled the blaze for six hours" {
		t.Errorf("description = %q, ok=%v", description, ok)
	}
	date, ok := src.Date(articles[0])
	if !ok || date != "2024-03-01" {
		t.Errorf("date = %q, ok=%v", date, ok)
	}
	link, ok := src.Link(articles[0])
	if !ok || link != "https://cbs.test/brooklyn-fire" {
		t.Errorf("link = %q, ok=%v", link, ok)
	}

	if _, ok := src.Description(articles[1]); ok {
		t.Error("missing description must report ok=false")
	}
	if _, ok := src.Link(articles[1]); ok {
		t.Error("missing link must report ok=false")
	}
}

const nbcFixture = `{
  "template_items": {
    "items": [
      {
        "title": "Manhattan jewelry heist under investigation",
        "summary": "<p>Detectives are reviewing <b>surveillance footage</b></p>",
        "date": "2024-02-15 12:00:00",
        "link": "https://nbc.test/heist"
      },
      {
        "title": "",
        "summary": "orphan summary",
        "date": "bogus",
        "link": ""
      }
    ]
  }
}`

func TestNBCSource(t *testing.T) {
	src := NewNBC("https://nbc.test/feed/")

	if got := src.URL(0); got != "https://nbc.test/feed/0" {
		t.Errorf("URL(0) = %q", got)
	}

	articles, err := src.Articles([]byte(nbcFixture))
	if err != nil {
		t.Fatalf("Articles returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("parsed %d articles, want 2", len(articles))
	}

	headline, ok := src.Headline(articles[0])
	if !ok || headline != "Manhattan jewelry heist under investigation" {
		t.Errorf("headline = %q, ok=%v", headline, ok)
	}
	description, ok := src.Description(articles[0])
	if !ok || description != "Detectives are reviewing surveillance footage" {
		t.Errorf("description = %q, markup should be stripped", description)
	}
	date, ok := src.Date(articles[0])
	if !ok || date != "2024-02-15" {
		t.Errorf("date = %q, ok=%v", date, ok)
	}

	if _, ok := src.Headline(articles[1]); ok {
		t.Error("empty title must report ok=false")
	}
	if _, ok := src.Date(articles[1]); ok {
		t.Error("unparseable date must report ok=false")
	}
}

func TestNBCSourceRejectsBadJSON(t *testing.T) {
	src := NewNBC("https://nbc.test/feed/")
	if _, err := src.Articles([]byte("<html>not json</html>")); err == nil {
		t.Error("Articles must fail on non-JSON content")
	}
}

const nydailyFixture = `
<html><body>
<article>
  <a class="article-title" title="Staten Island ferry incident probed" href="/ferry-incident"></a>
  <div class="excerpt">Officials opened an inquiry on Monday</div>
  <time datetime="2024-01-20T09:00:00">Jan 20</time>
</article>
</body></html>`

func TestNYDailySource(t *testing.T) {
	src := NewNYDaily("https://nydaily.test/latest/")

	articles, err := src.Articles([]byte(nydailyFixture))
	if err != nil {
		t.Fatalf("Articles returned error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("parsed %d articles, want 1", len(articles))
	}

	headline, ok := src.Headline(articles[0])
	if !ok || headline != "Staten Island ferry incident probed" {
		t.Errorf("headline = %q, ok=%v", headline, ok)
	}
	description, ok := src.Description(articles[0])
	if !ok || description != "Officials opened an inquiry on Monday" {
		t.Errorf("description = %q, ok=%v", description, ok)
	}
	date, ok := src.Date(articles[0])
	if !ok || date != "2024-01-20" {
		t.Errorf("date = %q, ok=%v", date, ok)
	}
	link, ok := src.Link(articles[0])
	if !ok || link != "/ferry-incident" {
		t.Errorf("link = %q, ok=%v", link, ok)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(NewCBS("https://cbs.test/"), NewNBC("https://nbc.test/"))

	src, err := reg.SourceFor("CBS")
	if err != nil {
		t.Fatalf("SourceFor(CBS) returned error: %v", err)
	}
	if src.ID() != "cbs" {
		t.Errorf("resolved source id = %q", src.ID())
	}

	if _, err := reg.SourceFor("nydaily"); err == nil {
		t.Error("unregistered source must return an error")
	}
	if _, err := reg.SourceFor(""); err == nil {
		t.Error("empty id must return an error")
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		err  bool
	}{
		{name: "iso with T", in: "2024-03-01T08:30:00", want: "2024-03-01"},
		{name: "iso with space", in: "2024-03-01 08:30:00", want: "2024-03-01"},
		{name: "updated prefix", in: "updated 2024-03-01T08:30:00", want: "2024-03-01"},
		{name: "month day with year", in: "Mar 1, 2024", want: "2024-03-01"},
		{name: "empty", in: "", err: true},
		{name: "garbage", in: "tomorrow-ish", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeDate(tt.in)
			if tt.err {
				if err == nil {
					t.Fatalf("normalizeDate(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeDate(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("normalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDateRelative(t *testing.T) {
	got, err := normalizeDate("2H ago")
	if err != nil {
		t.Fatalf("normalizeDate returned error: %v", err)
	}
	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().Add(-24 * time.Hour).Format("2006-01-02")
	if got != today && got != yesterday {
		t.Errorf("normalizeDate(2H ago) = %q, want today or yesterday", got)
	}

	if _, err := normalizeDate("45M ago"); err != nil {
		t.Errorf("normalizeDate(45M ago) returned error: %v", err)
	}
}

func TestNormalizeDateAssumesCurrentYear(t *testing.T) {
	got, err := normalizeDate("Mar 1")
	if err != nil {
		t.Fatalf("normalizeDate returned error: %v", err)
	}
	want := time.Date(time.Now().Year(), time.March, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	if got != want {
		t.Errorf("normalizeDate(Mar 1) = %q, want %q", got, want)
	}
}
