package models

import (
	"fmt"
	"strings"
)

// Conversation pages. PageChooseSubSubcategory carries the selected category
// after a colon, e.g. "choose_sub_subcategory:Разработка".
const (
	PageStart                = "start"
	PageMain                 = "main"
	PageAutoAnswer           = "auto_answer"
	PageChooseCategory       = "choose_category"
	PageChooseSubcategory    = "choose_subcategory"
	PageChooseSubSubcategory = "choose_sub_subcategory"
)

const pageParamSep = ":"

// SplitPage breaks a stored page value into its base state and the embedded
// parameter ("" when the page carries none).
func SplitPage(page string) (base, param string) {
	base, param, _ = strings.Cut(page, pageParamSep)
	return base, param
}

// JoinPage builds a composite page value.
func JoinPage(base, param string) string {
	if param == "" {
		return base
	}
	return base + pageParamSep + param
}

// Profile is the transport-sourced part of a user, refreshed on every
// inbound message.
type Profile struct {
	FirstName    string
	LastName     string
	Username     string
	IsBot        bool
	LanguageCode string
}

// User is one chat subscriber. The JSON tags double as the persistence
// format.
type User struct {
	ID               int64                      `json:"id"`
	FirstName        string                     `json:"first_name"`
	LastName         string                     `json:"last_name"`
	Username         string                     `json:"username"`
	IsBot            bool                       `json:"is_bot"`
	LanguageCode     string                     `json:"language_code"`
	Page             string                     `json:"page"`
	AutoAnswer       bool                       `json:"auto_answer"`
	HasNotifications bool                       `json:"has_notifications"`
	Categories       map[string]map[string]bool `json:"categories"`
}

// NewUser seeds a fresh subscriber: page "start", flags off, the full
// default taxonomy.
func NewUser(id int64) *User {
	return &User{
		ID:         id,
		Page:       PageStart,
		Categories: defaultCategories(),
	}
}

// Normalize repairs a user reconstructed from storage: a missing page or
// category map falls back to the construction defaults.
func (u *User) Normalize() {
	if u.Page == "" {
		u.Page = PageStart
	}
	if u.Categories == nil {
		u.Categories = defaultCategories()
	}
}

// UpdateProfile overwrites the transport-sourced fields. Page, flags and
// categories are never touched here.
func (u *User) UpdateProfile(p Profile) {
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Username = p.Username
	u.IsBot = p.IsBot
	u.LanguageCode = p.LanguageCode
}

func (u *User) SetPage(page string) {
	u.Page = page
}

func (u *User) SetNotifications(on bool) {
	u.HasNotifications = on
}

func (u *User) SetAutoAnswer(on bool) {
	u.AutoAnswer = on
}

// SetCategory toggles every subcategory under name at once. Unknown names
// are ignored.
func (u *User) SetCategory(name string, on bool) {
	subs, ok := u.Categories[name]
	if !ok {
		return
	}
	for sub := range subs {
		subs[sub] = on
	}
}

// SetSubcategory toggles exactly one leaf. Unknown category or subcategory
// names are ignored: stale keyboards must not fault the handler.
func (u *User) SetSubcategory(name, subcategory string, on bool) {
	subs, ok := u.Categories[name]
	if !ok {
		return
	}
	if _, ok := subs[subcategory]; !ok {
		return
	}
	subs[subcategory] = on
}

// CategoryActive reports whether at least one subcategory under name is
// subscribed.
func (u *User) CategoryActive(name string) bool {
	for _, on := range u.Categories[name] {
		if on {
			return true
		}
	}
	return false
}

// SubscribedTo reports whether the exact category/subcategory leaf is
// subscribed.
func (u *User) SubscribedTo(category, subcategory string) bool {
	return u.Categories[category][subcategory]
}

// Clone returns a deep copy safe to serialize while the original keeps
// being toggled.
func (u *User) Clone() User {
	out := *u
	out.Categories = make(map[string]map[string]bool, len(u.Categories))
	for name, subs := range u.Categories {
		copied := make(map[string]bool, len(subs))
		for sub, on := range subs {
			copied[sub] = on
		}
		out.Categories[name] = copied
	}
	return out
}

func (u *User) String() string {
	return fmt.Sprintf("<User %d | %s %s | %s | %s >", u.ID, u.FirstName, u.LastName, u.Username, u.Page)
}
