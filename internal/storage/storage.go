package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"freelansim-bot/internal/models"
)

// Storage ties the two tables to their on-disk form: data/users.json and
// data/tasks.json, each a JSON object keyed by the stringified numeric id.
type Storage struct {
	Users *Users
	Tasks *Tasks

	usersPath string
	tasksPath string
}

func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}

	s := &Storage{
		Users:     NewUsers(),
		Tasks:     NewTasks(),
		usersPath: filepath.Join(dataDir, "users.json"),
		tasksPath: filepath.Join(dataDir, "tasks.json"),
	}

	for _, path := range []string{s.usersPath, s.tasksPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
				return nil, fmt.Errorf("could not seed %s: %w", path, err)
			}
		}
	}

	return s, nil
}

// Load populates both tables from disk. A missing or undecodable file is
// logged and treated as zero records; startup never fails on bad data.
func (s *Storage) Load() {
	var rawUsers map[string]*models.User
	if err := readJSON(s.usersPath, &rawUsers); err != nil {
		log.Printf("Error loading users, starting empty: %v", err)
	}
	for key, user := range rawUsers {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || user == nil {
			log.Printf("Skipping user record with bad key %q", key)
			continue
		}
		user.ID = id
		user.Normalize()
		s.Users.put(user)
	}
	log.Printf("Loaded %d users", s.Users.Len())

	var rawTasks map[string]*models.Task
	if err := readJSON(s.tasksPath, &rawTasks); err != nil {
		log.Printf("Error loading tasks, starting empty: %v", err)
	}
	for key, task := range rawTasks {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || task == nil {
			log.Printf("Skipping task record with bad key %q", key)
			continue
		}
		task.ID = id
		s.Tasks.put(task)
	}
	log.Printf("Loaded %d tasks", s.Tasks.Len())
}

// Save flushes both tables. Called on the autosave interval and once more,
// synchronously, at shutdown.
func (s *Storage) Save() error {
	log.Println("Saving data...")

	users := make(map[string]models.User)
	for id, user := range s.Users.snapshot() {
		users[strconv.FormatInt(id, 10)] = user
	}
	if err := writeJSON(s.usersPath, users); err != nil {
		return fmt.Errorf("could not save users: %w", err)
	}

	tasks := make(map[string]models.Task)
	for id, task := range s.Tasks.snapshot() {
		tasks[strconv.FormatInt(id, 10)] = task
	}
	if err := writeJSON(s.tasksPath, tasks); err != nil {
		return fmt.Errorf("could not save tasks: %w", err)
	}

	return nil
}

func readJSON(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
