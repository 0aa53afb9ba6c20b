package taskstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/NoelOsiro/tuma-task-api/pkg/client"
)

// Snapshotter persists the task list between sessions. Save is called after
// every confirmed mutation; Load once at construction.
type Snapshotter interface {
	Save(tasks []client.Task) error
	Load() ([]client.Task, error)
}

// FileSnapshot keeps the list as a JSON file on disk.
type FileSnapshot struct {
	path string
}

func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

func (f *FileSnapshot) Save(tasks []client.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	// Write-then-rename so a crash mid-save cannot truncate the snapshot.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileSnapshot) Load() ([]client.Task, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var tasks []client.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// MemorySnapshot is the test and ephemeral-session adapter.
type MemorySnapshot struct {
	mu    sync.Mutex
	tasks []client.Task
}

func NewMemorySnapshot() *MemorySnapshot {
	return &MemorySnapshot{}
}

func (m *MemorySnapshot) Save(tasks []client.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = make([]client.Task, len(tasks))
	copy(m.tasks, tasks)
	return nil
}

func (m *MemorySnapshot) Load() ([]client.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]client.Task, len(m.tasks))
	copy(out, m.tasks)
	return out, nil
}
