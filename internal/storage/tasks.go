package storage

import (
	"log"
	"sort"
	"sync"

	"freelansim-bot/internal/models"
)

// Tasks is the canonical task table: task id to entity, guarded by its own
// lock so reconciliation never serializes against the user table.
type Tasks struct {
	mu    sync.RWMutex
	items map[int64]*models.Task
}

func NewTasks() *Tasks {
	return &Tasks{items: make(map[int64]*models.Task)}
}

func (t *Tasks) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// Get returns a copy of the task, so callers can format it without holding
// the table lock.
func (t *Tasks) Get(id int64) (models.Task, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	task, ok := t.items[id]
	if !ok {
		return models.Task{}, false
	}
	return *task, true
}

// Reconcile merges one page of listing snapshots into the table. Unseen ids
// are validated, inserted and, when the snapshot carried a resolvable URL,
// returned as fresh tasks for notification fan-out. Known ids get a silent
// field-by-field update; every changed field is logged. A malformed snapshot
// is skipped, never aborts the page.
func (t *Tasks) Reconcile(snaps []models.Task) []models.Task {
	var fresh []models.Task

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, snap := range snaps {
		task, err := models.NewTask(snap)
		if err != nil {
			log.Printf("Skipping snapshot: %v", err)
			continue
		}

		existing, ok := t.items[task.ID]
		if !ok {
			t.items[task.ID] = task
			if snap.URL != "" {
				fresh = append(fresh, *task)
			}
			continue
		}

		for _, change := range existing.Update(task) {
			log.Printf("UPDATE # %s | %s:\t%v -> %v", existing, change.Field, change.Old, change.New)
		}
	}

	return fresh
}

// Recent returns up to n tasks ordered by publication time, oldest first.
func (t *Tasks) Recent(n int) []models.Task {
	t.mu.RLock()
	tasks := make([]models.Task, 0, len(t.items))
	for _, task := range t.items {
		tasks = append(tasks, *task)
	}
	t.mu.RUnlock()

	sort.Slice(tasks, func(i, j int) bool {
		var a, b models.Timestamp
		if tasks[i].PublishedAt != nil {
			a = *tasks[i].PublishedAt
		}
		if tasks[j].PublishedAt != nil {
			b = *tasks[j].PublishedAt
		}
		return a.Before(b.Time)
	})

	if len(tasks) > n {
		tasks = tasks[len(tasks)-n:]
	}
	return tasks
}

func (t *Tasks) put(task *models.Task) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[task.ID] = task
}

func (t *Tasks) snapshot() map[int64]models.Task {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[int64]models.Task, len(t.items))
	for id, task := range t.items {
		out[id] = *task
	}
	return out
}
