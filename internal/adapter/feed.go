package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"

	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/normalize"
)

// FeedSource reads jobs from RSS and Atom job board feeds. Each board's
// name is used both as the record source and as the company fallback.
type FeedSource struct {
	boards  []Board
	client  *http.Client
	limiter Waiter
	logger  *slog.Logger
}

var _ model.Source = (*FeedSource)(nil)

// NewFeedSource creates a source over the given feed URLs. Boards without
// a name are named after the first label of the feed's host.
func NewFeedSource(boards []Board, client *http.Client, limiter Waiter, logger *slog.Logger) *FeedSource {
	named := make([]Board, 0, len(boards))
	for _, b := range boards {
		if strings.TrimSpace(b.Name) == "" {
			b.Name = nameFromURL(b.ID)
		}
		named = append(named, b)
	}
	return &FeedSource{
		boards:  cleanBoards(named),
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

func (s *FeedSource) Name() string { return "feeds" }

func (s *FeedSource) Available() (bool, string) {
	if len(s.boards) == 0 {
		return false, "no feeds configured"
	}
	return true, ""
}

func (s *FeedSource) Fetch(ctx context.Context) []model.Job {
	var feeds []Board
	for _, b := range s.boards {
		if !looksLikeFeed(b.ID) {
			s.logger.Debug("skipping unknown board format", "source", s.Name(), "item", b.ID)
			continue
		}
		feeds = append(feeds, b)
	}
	return collect(ctx, s.Name(), feeds, Board.label, s.limiter, s.logger, s.fetchFeed)
}

func (s *FeedSource) fetchFeed(ctx context.Context, b Board) ([]model.Job, error) {
	body, err := get(ctx, s.client, b.ID)
	if err != nil {
		return nil, fmt.Errorf("feed fetch for %s: %w", b.ID, err)
	}
	defer body.Close()

	parsed, err := newFeedParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", b.ID, err)
	}

	jobs := make([]model.Job, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		title := strings.TrimSpace(item.Title)
		link := feedLink(item)
		if title == "" || link == "" {
			continue
		}

		description := item.Description
		if strings.TrimSpace(description) == "" {
			description = item.Content
		}

		jobs = append(jobs, normalize.Job(normalize.Fields{
			Title:      title,
			Company:    feedCompany(item, title, b.Name),
			URL:        link,
			Source:     b.Name,
			PostedDate: item.Published,
			Snippet:    snippet(description),
		}))
	}
	return jobs, nil
}

// looksLikeFeed reports whether a board URL should be read as a feed.
func looksLikeFeed(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "rss") || strings.Contains(lower, "feed") || strings.HasSuffix(raw, ".xml")
}

// feedLink prefers the entry link and falls back to a GUID that is a URL.
func feedLink(item *gofeed.Item) string {
	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}
	if guid := strings.TrimSpace(item.GUID); strings.HasPrefix(guid, "http") {
		return guid
	}
	return ""
}

// itemSourceKey is where sourceTranslator stores an RSS item's <source> title.
const itemSourceKey = "source"

func newFeedParser() *gofeed.Parser {
	p := gofeed.NewParser()
	p.RSSTranslator = &sourceTranslator{}
	return p
}

// sourceTranslator is the default RSS translator that also keeps each
// item's <source> title, which the universal item drops.
type sourceTranslator struct {
	gofeed.DefaultRSSTranslator
}

func (t *sourceTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	rssFeed, ok := feed.(*rss.Feed)
	if !ok {
		return nil, errors.New("feed did not match expected type of *rss.Feed")
	}
	out, err := t.DefaultRSSTranslator.Translate(rssFeed)
	if err != nil {
		return nil, err
	}
	if len(out.Items) != len(rssFeed.Items) {
		return out, nil
	}
	for i, item := range rssFeed.Items {
		if item.Source == nil || strings.TrimSpace(item.Source.Title) == "" {
			continue
		}
		if out.Items[i].Custom == nil {
			out.Items[i].Custom = make(map[string]string)
		}
		out.Items[i].Custom[itemSourceKey] = strings.TrimSpace(item.Source.Title)
	}
	return out, nil
}

// feedCompany picks the RSS <source> title, then the entry author, then the
// "Company - Title" prefix of the title, then the board name.
func feedCompany(item *gofeed.Item, title, board string) string {
	if src := item.Custom[itemSourceKey]; src != "" {
		return src
	}
	for _, a := range item.Authors {
		if a != nil && strings.TrimSpace(a.Name) != "" {
			return a.Name
		}
	}
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		return item.Author.Name
	}
	if prefix, _, ok := strings.Cut(title, " - "); ok && strings.TrimSpace(prefix) != "" {
		return prefix
	}
	return board
}

func nameFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	label, _, _ := strings.Cut(host, ".")
	return label
}
