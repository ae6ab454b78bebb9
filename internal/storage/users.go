package storage

import (
	"sync"

	"freelansim-bot/internal/models"
)

// Users is the subscriber table. Every mutation of a user entity runs under
// the table lock, so persistence never serializes a half-toggled category
// map and fan-out never iterates a map mid-insert.
type Users struct {
	mu    sync.RWMutex
	items map[int64]*models.User
}

func NewUsers() *Users {
	return &Users{items: make(map[int64]*models.User)}
}

func (u *Users) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.items)
}

// With runs fn on the user with the given id, creating the entity with
// defaults on first sight. fn runs under the write lock; keep network calls
// out of it.
func (u *Users) With(id int64, fn func(*models.User)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.items[id]
	if !ok {
		user = models.NewUser(id)
		u.items[id] = user
	}
	fn(user)
}

// Mutate runs fn on an existing user and reports whether the id was known.
func (u *Users) Mutate(id int64, fn func(*models.User)) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.items[id]
	if !ok {
		return false
	}
	fn(user)
	return true
}

// Subscribers returns the ids of every user with notifications on and the
// exact category/subcategory leaf subscribed.
func (u *Users) Subscribers(category, subcategory string) []int64 {
	u.mu.RLock()
	defer u.mu.RUnlock()

	var ids []int64
	for id, user := range u.items {
		if user.HasNotifications && user.SubscribedTo(category, subcategory) {
			ids = append(ids, id)
		}
	}
	return ids
}

// CountNotifying returns how many users currently have notifications on.
func (u *Users) CountNotifying() int {
	u.mu.RLock()
	defer u.mu.RUnlock()

	count := 0
	for _, user := range u.items {
		if user.HasNotifications {
			count++
		}
	}
	return count
}

func (u *Users) put(user *models.User) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.items[user.ID] = user
}

func (u *Users) snapshot() map[int64]models.User {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make(map[int64]models.User, len(u.items))
	for id, user := range u.items {
		out[id] = user.Clone()
	}
	return out
}
