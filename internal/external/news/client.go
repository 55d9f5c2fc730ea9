package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/pkg/config"
	"github.com/wonny/caiwu/pkg/httputil"
	"github.com/wonny/caiwu/pkg/logger"
	"github.com/wonny/caiwu/pkg/redis"
)

const defaultLimit = 5

// Client finds recent headlines about a company in an RSS/Atom search feed
// ⭐ SSOT: 뉴스 피드 조회는 여기서만
type Client struct {
	httpClient *httputil.Client
	parser     *gofeed.Parser
	cache      *redis.Cache
	feedURL    string // printf template, %s = escaped query
	limit      int
	logger     *logger.Logger
}

// NewClient creates a news client. cache may be nil.
func NewClient(cfg config.NewsConfig, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	if httpClient == nil {
		httpClient = httputil.New(log)
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	return &Client{
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		cache:      cache,
		feedURL:    cfg.FeedURL,
		limit:      limit,
		logger:     log.Component("news"),
	}
}

// Enabled reports whether a feed is configured
func (c *Client) Enabled() bool {
	return c.feedURL != ""
}

// Headlines returns at most limit items mentioning the company, newest first.
// A disabled client returns nothing.
func (c *Client) Headlines(ctx context.Context, name, code string) ([]contracts.Headline, error) {
	if !c.Enabled() {
		return nil, nil
	}

	query := name
	if query == "" {
		query = code
	}

	fetch := func() (interface{}, error) {
		return c.fetch(ctx, query, name, code)
	}

	if c.cache == nil {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		return v.([]contracts.Headline), nil
	}

	var headlines []contracts.Headline
	if err := c.cache.GetOrSet(ctx, redis.NewsKey(code), &headlines, redis.TTLShort, fetch); err != nil {
		return nil, err
	}
	return headlines, nil
}

func (c *Client) fetch(ctx context.Context, query, name, code string) ([]contracts.Headline, error) {
	feedURL := c.feedURL
	if strings.Contains(feedURL, "%s") {
		feedURL = fmt.Sprintf(feedURL, url.QueryEscape(query))
	}

	resp, err := c.httpClient.Get(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch news feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news feed returned %d", resp.StatusCode)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse news feed: %w", err)
	}

	keywords := keywords(name, code)
	headlines := make([]contracts.Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		if !mentions(item.Title+" "+cleanHTML(item.Description), keywords) {
			continue
		}
		source := feed.Title
		if item.Author != nil && item.Author.Name != "" {
			source = item.Author.Name
		}
		headlines = append(headlines, contracts.Headline{
			Title:     strings.TrimSpace(item.Title),
			Link:      item.Link,
			Source:    source,
			Published: item.PublishedParsed,
		})
	}

	sortNewestFirst(headlines)
	if len(headlines) > c.limit {
		headlines = headlines[:c.limit]
	}

	c.logger.WithFields(map[string]interface{}{
		"code":  code,
		"items": len(feed.Items),
		"kept":  len(headlines),
	}).Debug("Fetched headlines")

	return headlines, nil
}

// cleanHTML strips tags from an item description
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

func keywords(name, code string) []string {
	var kw []string
	if name != "" {
		kw = append(kw, strings.ToLower(name))
	}
	if code != "" {
		kw = append(kw, code)
	}
	return kw
}

func mentions(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// 날짜 없는 항목은 뒤로
func sortNewestFirst(h []contracts.Headline) {
	sort.SliceStable(h, func(i, j int) bool {
		a, b := h[i].Published, h[j].Published
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
