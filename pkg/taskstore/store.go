// Package taskstore holds the locally known task list for a dashboard
// session. It is the single point every view reads tasks from and every
// mutation goes through; remote calls are confirm-then-mutate, so a failed
// request never disturbs the cached list.
package taskstore

import (
	"context"
	"errors"
	"sync"

	"github.com/NoelOsiro/tuma-task-api/pkg/client"
	"go.uber.org/zap"
)

var ErrMissingID = errors.New("taskstore: task id is required")

// API is the slice of the task client the store drives.
type API interface {
	ListTasks(ctx context.Context, opts client.ListOptions) ([]client.Task, error)
	CreateTask(ctx context.Context, patch client.TaskPatch) ([]client.Task, error)
	UpdateTask(ctx context.Context, patch client.TaskPatch) ([]client.Task, error)
	DeleteTask(ctx context.Context, id string) ([]client.Task, error)
	SearchTasks(ctx context.Context, q string) ([]client.Task, error)
}

type Store struct {
	mu       sync.Mutex
	tasks    []client.Task
	inflight int
	err      error

	api  API
	snap Snapshotter
	log  *zap.Logger
}

type Config struct {
	API      API
	Snapshot Snapshotter
	Logger   *zap.Logger
}

// New builds a store and rehydrates the task list from the snapshot, so a
// restarted session shows the last known list before any fetch completes.
func New(cfg Config) *Store {
	s := &Store{
		api:  cfg.API,
		snap: cfg.Snapshot,
		log:  cfg.Logger,
	}
	if s.snap == nil {
		s.snap = NewMemorySnapshot()
	}

	tasks, err := s.snap.Load()
	if err != nil {
		if s.log != nil {
			s.log.Warn("taskstore_rehydrate_failed", zap.Error(err))
		}
	} else if len(tasks) > 0 {
		s.tasks = tasks
	}
	return s
}

// Tasks returns a copy of the cached list in server order.
func (s *Store) Tasks() []client.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Loading reports whether any operation is outstanding. It is backed by an
// in-flight counter, so overlapping operations cannot clear it early.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Err returns the last operation failure. It is cleared when a new operation
// starts.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) begin() {
	s.mu.Lock()
	s.inflight++
	s.err = nil
	s.mu.Unlock()
}

func (s *Store) finish(err error) {
	s.mu.Lock()
	s.inflight--
	if err != nil {
		s.err = err
	}
	s.mu.Unlock()
}

// persist must be called with the lock held.
func (s *Store) persist() {
	if err := s.snap.Save(s.tasks); err != nil && s.log != nil {
		s.log.Warn("taskstore_snapshot_failed", zap.Error(err))
	}
}

type FetchOptions struct {
	Limit  int
	Offset int
}

// Fetch replaces the entire cached list with the server's response. The
// previous list survives a failed call untouched.
func (s *Store) Fetch(ctx context.Context, opts FetchOptions) error {
	s.begin()

	tasks, err := s.api.ListTasks(ctx, client.ListOptions{Limit: opts.Limit, Offset: opts.Offset})
	s.finish(err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tasks = tasks
	s.persist()
	s.mu.Unlock()
	return nil
}

// Create posts a partial task and appends the server-assigned record(s) to
// the cached list. The first created record is returned.
func (s *Store) Create(ctx context.Context, patch client.TaskPatch) (client.Task, error) {
	s.begin()

	created, err := s.api.CreateTask(ctx, patch)
	s.finish(err)
	if err != nil {
		return client.Task{}, err
	}
	if len(created) == 0 {
		err := errors.New("taskstore: server returned no created task")
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return client.Task{}, err
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, created...)
	s.persist()
	s.mu.Unlock()
	return created[0], nil
}

// Edit updates the task identified by patch.ID and merges the confirmed
// fields into the matching cached entry. Entries with other ids are
// untouched.
func (s *Store) Edit(ctx context.Context, patch client.TaskPatch) error {
	if patch.ID == "" {
		return ErrMissingID
	}

	s.begin()

	updated, err := s.api.UpdateTask(ctx, patch)
	s.finish(err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID != patch.ID {
			continue
		}
		if row := findByID(updated, patch.ID); row != nil {
			s.tasks[i] = *row
		} else {
			applyPatch(&s.tasks[i], patch)
		}
		break
	}
	s.persist()
	s.mu.Unlock()
	return nil
}

// Delete removes the task with the given id from the cached list once the
// server confirms the deletion.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	s.begin()

	_, err := s.api.DeleteTask(ctx, id)
	s.finish(err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.persist()
	s.mu.Unlock()
	return nil
}

// Search queries the server without touching the cached list; results are a
// view, not new truth.
func (s *Store) Search(ctx context.Context, q string) ([]client.Task, error) {
	s.begin()

	tasks, err := s.api.SearchTasks(ctx, q)
	s.finish(err)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func findByID(tasks []client.Task, id string) *client.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

func applyPatch(t *client.Task, p client.TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Location != nil {
		t.Location = p.Location
	}
	if p.Reward != nil {
		t.Reward = p.Reward
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
}
