package fl

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Details holds the extended fields scraped from a task's HTML page; the
// listing API does not expose them.
type Details struct {
	Description string
	PublishedAt time.Time
	Username    string
	Avatar      string
	Verified    string
}

var ruMonths = []string{
	"января", "февраля", "марта",
	"апреля", "мая", "июня",
	"июля", "августа", "сентября",
	"октября", "ноября", "декабря",
}

// TaskDetails fetches and scrapes one task page.
func (c *Client) TaskDetails(ctx context.Context, taskID int64) (*Details, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/tasks/%d", c.rootURL, taskID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch task page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("task page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not parse task page: %w", err)
	}

	details := &Details{
		Description: strings.TrimSpace(doc.Find("div.task__description").Text()),
	}

	if meta := metaDateLine(doc.Find("div.task__meta").Text()); meta != "" {
		published, err := parseRussianDate(meta)
		if err != nil {
			return nil, err
		}
		details.PublishedAt = published
	}

	about := doc.Find("div.user_about")
	if link := about.Find("div.avatar a"); link.Length() > 0 {
		if href, ok := link.Attr("href"); ok {
			parts := strings.Split(href, "/")
			details.Username = parts[len(parts)-1]
		}
		if src, ok := link.Find("img").Attr("src"); ok && !strings.HasPrefix(src, "/assets/default") {
			details.Avatar = c.absoluteAsset(src)
		}
	}
	if verified, ok := about.Find("span.verified").Attr("title"); ok {
		details.Verified = verified
	}

	return details, nil
}

func metaDateLine(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return ""
	}
	return strings.TrimSpace(lines[1])
}

// parseRussianDate parses "2 августа 2026, 15:04".
func parseRussianDate(s string) (time.Time, error) {
	for i, month := range ruMonths {
		if strings.Contains(s, month) {
			s = strings.Replace(s, month, fmt.Sprintf("%02d", i+1), 1)
			t, err := time.Parse("2 01 2006, 15:04", s)
			if err != nil {
				return time.Time{}, fmt.Errorf("could not parse task date %q: %w", s, err)
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no known month in task date %q", s)
}
