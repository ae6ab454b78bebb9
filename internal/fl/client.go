package fl

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"freelansim-bot/internal/currency"
	"freelansim-bot/internal/models"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/74.0.3729.169 Safari/537.36"

// Client talks to the marketplace listing API. It issues two requests per
// page: the plain JSON listing, which carries the enrichment fields
// (category, publication time, URL, counters), and the X-Version: 1 listing,
// which carries the base task body. The two are merged by id; entries
// present only in the plain listing are dropped.
type Client struct {
	http      *http.Client
	rootURL   string
	perPage   int
	converter *currency.Converter
}

func NewClient(rootURL string, perPage int, timeout time.Duration, converter *currency.Converter) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		rootURL:   rootURL,
		perPage:   perPage,
		converter: converter,
	}
}

// UseJar attaches a cookie jar, typically the authorized profile session's,
// so listing and page requests carry the account cookies.
func (c *Client) UseJar(jar http.CookieJar) {
	c.http.Jar = jar
}

// listingEntry is one task from the X-Version: 1 listing.
type listingEntry struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Price        struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"price"`
	Date         string `json:"date"`
	ReplyCount   int    `json:"reply_count"`
	HasResponded bool   `json:"has_responded"`
	IsMarked     bool   `json:"is_marked"`
	Tags         []struct {
		Name string `json:"name"`
	} `json:"tags"`
	SafeDealOnly bool `json:"safe_deal_only"`
	User         struct {
		Firstname string  `json:"firstname"`
		Lastname  string  `json:"lastname"`
		Username  string  `json:"username"`
		Rating    float64 `json:"rating"`
		Avatar    struct {
			Src   string `json:"src"`
			Src2x string `json:"src2x"`
		} `json:"avatar"`
	} `json:"user"`
}

// enrichedEntry is one task from the plain listing.
type enrichedEntry struct {
	ID                int64  `json:"id"`
	IsPublish         bool   `json:"is_publish"`
	CategoryName      string `json:"category_name"`
	SubCategoryName   string `json:"sub_category_name"`
	PublishedAt       string `json:"published_at"`
	URL               string `json:"url"`
	TaskCommentsCount int    `json:"task_comments_count"`
	PageViewsCount    int    `json:"page_views_count"`
}

// Tasks fetches one listing page and returns merged snapshots ready for
// reconciliation.
func (c *Client) Tasks(ctx context.Context, page int) ([]models.Task, error) {
	var enriched []enrichedEntry
	if err := c.getListing(ctx, page, false, &enriched); err != nil {
		return nil, fmt.Errorf("enriched listing: %w", err)
	}

	details := make(map[int64]enrichedEntry, len(enriched))
	for _, e := range enriched {
		details[e.ID] = e
	}

	var body struct {
		Tasks []listingEntry `json:"tasks"`
	}
	if err := c.getListing(ctx, page, true, &body); err != nil {
		return nil, fmt.Errorf("base listing: %w", err)
	}

	snaps := make([]models.Task, 0, len(body.Tasks))
	for _, entry := range body.Tasks {
		snaps = append(snaps, c.buildSnapshot(entry, details[entry.ID]))
	}
	return snaps, nil
}

func (c *Client) getListing(ctx context.Context, page int, versioned bool, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rootURL+"/tasks", nil)
	if err != nil {
		return err
	}

	q := req.URL.Query()
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if versioned {
		req.Header.Set("X-Version", "1")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("listing returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *Client) buildSnapshot(entry listingEntry, extra enrichedEntry) models.Task {
	tags := make([]string, len(entry.Tags))
	for i, tag := range entry.Tags {
		tags[i] = tag.Name
	}

	price := models.Price{Type: entry.Price.Type, Value: entry.Price.Value}
	if price.Type != "none" {
		price.AmountRub = parseRubles(price.Value)
		if price.AmountRub > 0 {
			if usd, err := c.converter.ToUSDDisplay(price.AmountRub); err == nil {
				price.ValueUSD = usd
			}
		}
	}

	snap := models.Task{
		ID:           entry.ID,
		Title:        entry.Title,
		Description:  entry.Description,
		Price:        price,
		Date:         entry.Date,
		ReplyCount:   entry.ReplyCount,
		HasResponded: entry.HasResponded,
		IsMarked:     entry.IsMarked,
		Tags:         tags,
		SafeDealOnly: entry.SafeDealOnly,
		User: models.Author{
			Firstname: entry.User.Firstname,
			Lastname:  entry.User.Lastname,
			Username:  entry.User.Username,
			Rating:    entry.User.Rating,
			Avatar: models.Avatar{
				Src:   c.absoluteAsset(entry.User.Avatar.Src),
				Src2x: c.absoluteAsset(entry.User.Avatar.Src2x),
			},
		},
	}

	if extra.ID == 0 {
		// Only the X-Version listing had this task; without enrichment it
		// has no resolvable URL and must not raise a new-task event.
		return snap
	}

	snap.IsPublish = extra.IsPublish
	snap.CategoryName = extra.CategoryName
	snap.SubCategoryName = extra.SubCategoryName
	snap.URL = extra.URL
	snap.TaskCommentsCount = extra.TaskCommentsCount
	snap.PageViewsCount = extra.PageViewsCount

	if extra.PublishedAt != "" {
		ts, err := models.ParseTimestamp(extra.PublishedAt)
		if err != nil {
			log.Printf("Task %d: %v", entry.ID, err)
		} else {
			snap.PublishedAt = &ts
		}
	}

	return snap
}

func (c *Client) absoluteAsset(src string) string {
	if len(src) > 0 && src[0] == '/' {
		return c.rootURL + src
	}
	return src
}

// parseRubles pulls the numeric amount out of a display price like
// "2 000 руб." or "500 руб./час". Digit groups separated by spaces belong
// to the same number; the first non-numeric rune after the digits ends it.
func parseRubles(value string) float64 {
	var digits []rune
	seen := false
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, r)
			seen = true
		case r == ' ' || r == ' ':
			if !seen {
				continue
			}
		default:
			if seen {
				n, _ := strconv.ParseFloat(string(digits), 64)
				return n
			}
		}
	}
	if !seen {
		return 0
	}
	n, _ := strconv.ParseFloat(string(digits), 64)
	return n
}
