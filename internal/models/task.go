package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrInvalidSnapshot = errors.New("models: invalid task snapshot")

// Price is the structured task price. Value keeps the display string as the
// marketplace renders it, AmountRub and ValueUSD are derived on ingestion
// for prices of a known type.
type Price struct {
	Type      string  `json:"type"`
	Value     string  `json:"value"`
	AmountRub float64 `json:"amount_rub"`
	ValueUSD  string  `json:"value_usd"`
}

type Avatar struct {
	Src   string `json:"src"`
	Src2x string `json:"src2x"`
}

// Author is the nested task-author record from the listing API.
type Author struct {
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Username  string  `json:"username"`
	Rating    float64 `json:"rating"`
	Avatar    Avatar  `json:"avatar"`
}

// Task is one marketplace task. The JSON tags double as the persistence
// format, so a task loaded from disk is field-for-field equal to one built
// from a live snapshot.
type Task struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Price             Price      `json:"price"`
	Date              string     `json:"date"`
	ReplyCount        int        `json:"reply_count"`
	HasResponded      bool       `json:"has_responded"`
	IsMarked          bool       `json:"is_marked"`
	Tags              []string   `json:"tags"`
	SafeDealOnly      bool       `json:"safe_deal_only"`
	User              Author     `json:"user"`
	IsPublish         bool       `json:"is_publish"`
	CategoryName      string     `json:"category_name"`
	SubCategoryName   string     `json:"sub_category_name"`
	PublishedAt       *Timestamp `json:"published_at"`
	URL               string     `json:"url"`
	TaskCommentsCount int        `json:"task_comments_count"`
	PageViewsCount    int        `json:"page_views_count"`
}

// NewTask validates a merged listing snapshot and returns the task entity.
// The URL is always derived from the task id; whatever the snapshot carried
// is discarded.
func NewTask(snap Task) (*Task, error) {
	if snap.ID == 0 || snap.Title == "" || snap.Price.Type == "" || snap.User.Username == "" || snap.Tags == nil {
		return nil, fmt.Errorf("%w: id=%d title=%q", ErrInvalidSnapshot, snap.ID, snap.Title)
	}
	t := snap
	t.URL = fmt.Sprintf("%s/%d", TasksURL, t.ID)
	return &t, nil
}

// FieldChange records one field overwritten by Update.
type FieldChange struct {
	Field string
	Old   interface{}
	New   interface{}
}

// Update merges a fresh snapshot of the same task field by field and reports
// every field that actually changed. ID and URL are immutable after
// construction. Updating with an identical snapshot reports nothing.
func (t *Task) Update(in *Task) []FieldChange {
	var changes []FieldChange
	record := func(field string, old, new interface{}) {
		changes = append(changes, FieldChange{Field: field, Old: old, New: new})
	}

	if t.Title != in.Title {
		record("title", t.Title, in.Title)
		t.Title = in.Title
	}
	if t.Description != in.Description {
		record("description", t.Description, in.Description)
		t.Description = in.Description
	}
	if t.Price != in.Price {
		record("price", t.Price, in.Price)
		t.Price = in.Price
	}
	if t.HasResponded != in.HasResponded {
		record("has_responded", t.HasResponded, in.HasResponded)
		t.HasResponded = in.HasResponded
	}
	if t.Date != in.Date {
		record("date", t.Date, in.Date)
		t.Date = in.Date
	}
	if t.User != in.User {
		record("user", t.User, in.User)
		t.User = in.User
	}
	if t.ReplyCount != in.ReplyCount {
		record("reply_count", t.ReplyCount, in.ReplyCount)
		t.ReplyCount = in.ReplyCount
	}
	if t.PageViewsCount != in.PageViewsCount {
		record("page_views_count", t.PageViewsCount, in.PageViewsCount)
		t.PageViewsCount = in.PageViewsCount
	}
	if t.TaskCommentsCount != in.TaskCommentsCount {
		record("task_comments_count", t.TaskCommentsCount, in.TaskCommentsCount)
		t.TaskCommentsCount = in.TaskCommentsCount
	}
	if t.IsPublish != in.IsPublish {
		record("is_publish", t.IsPublish, in.IsPublish)
		t.IsPublish = in.IsPublish
	}
	if t.CategoryName != in.CategoryName {
		record("category_name", t.CategoryName, in.CategoryName)
		t.CategoryName = in.CategoryName
	}
	if t.SubCategoryName != in.SubCategoryName {
		record("sub_category_name", t.SubCategoryName, in.SubCategoryName)
		t.SubCategoryName = in.SubCategoryName
	}
	if !timestampsEqual(t.PublishedAt, in.PublishedAt) {
		record("published_at", t.PublishedAt, in.PublishedAt)
		t.PublishedAt = in.PublishedAt
	}
	if !tagsEqual(t.Tags, in.Tags) {
		record("tags", t.Tags, in.Tags)
		t.Tags = in.Tags
	}

	return changes
}

func timestampsEqual(a, b *Timestamp) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b.Time)
}

func tagsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FormatMessage renders the Markdown card for a task. The short form fits a
// notification preview, the full form adds category, engagement counters and
// the author line. Event messages drop the urgency marker.
func (t *Task) FormatMessage(full, event bool) string {
	odds := "✅ "
	switch {
	case t.ReplyCount >= 8:
		odds = "❌ "
	case t.ReplyCount >= 4:
		odds = "❔ "
	}
	if event {
		odds = ""
	}

	star := ""
	if t.SafeDealOnly {
		star = "✨ "
	}

	price := t.FormatPrice(true)
	date := t.Date
	if date == "0 мин." {
		date = "Только что"
	}

	if full {
		desc := t.formatDescription(2048)

		return fmt.Sprintf(
			"%s%s*%s*\n%s | %s\n\n_%s_\n%s | %s\n%s\n\n"+
				"Просмотров: *%d* | Откликов: *%d* | Комментариев: *%d*\n\n%s\n\n%s",
			odds, star, t.Title, price, date,
			strings.Join(t.Tags, ", "),
			t.CategoryName, t.SubCategoryName, t.URL,
			t.PageViewsCount, t.ReplyCount, t.TaskCommentsCount,
			desc, t.formatUser(),
		)
	}

	desc := t.formatDescription(128)

	return fmt.Sprintf(
		"%s%s*%s*\n%s | %s\n\n_%s_\n%s\n\n%s",
		odds, star, t.Title, price, date,
		strings.Join(t.Tags, ", "), t.URL, desc,
	)
}

// FormatPrice renders the price according to its type. With withDollars set
// the USD conversion is appended in parentheses next to the RUB value.
func (t *Task) FormatPrice(withDollars bool) string {
	if t.Price.Type == "none" {
		return t.Price.Value + " цена"
	}

	value := t.Price.Value
	if withDollars && t.Price.ValueUSD != "" {
		value = fmt.Sprintf("%s (%s)", t.Price.Value, t.Price.ValueUSD)
	}

	if t.Price.Type == "per_project" {
		return value + " за проект"
	}
	return value + " в час"
}

func (t *Task) formatUser() string {
	name := "Без имени"
	if t.User.Firstname != "" {
		name = t.User.Firstname
		if t.User.Lastname != "" {
			name += " " + t.User.Lastname
		}
	}

	rating := ""
	if t.User.Rating != 0 {
		rating = strconv.FormatFloat(t.User.Rating, 'f', -1, 64)
	}

	return fmt.Sprintf("%s | [%s](%s/%s) %s", name, t.User.Username, FreelancersURL, t.User.Username, rating)
}

// formatDescription accumulates whole description lines until the next line
// would push the total past budget. A single line longer than the budget
// yields an empty description rather than a partial line. Characters that
// collide with Telegram Markdown are replaced with plain lookalikes.
func (t *Task) formatDescription(budget int) string {
	var lines []string
	length := 0
	for _, line := range strings.Split(t.Description, "\n") {
		n := utf8.RuneCountInString(line)
		if length+n > budget {
			break
		}
		lines = append(lines, line)
		length += n + 1
	}

	out := strings.NewReplacer(
		"<br>", "\n",
		"*", "•",
		"_", "-",
		"`", `"`,
	).Replace(strings.Join(lines, "\n"))
	out = strings.ReplaceAll(out, "\n\n", "\n")

	return strings.TrimSpace(out)
}

func (t *Task) String() string {
	return fmt.Sprintf("<Task %s | %s | %s >", t.Date, t.Title, t.FormatPrice(false))
}
