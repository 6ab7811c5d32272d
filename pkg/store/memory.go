package store

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process job store. Jobs are copied on the way in and out
// so callers cannot mutate stored state.
type Memory struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]*Job)}
}

func (m *Memory) Put(_ context.Context, job *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *Memory) List(_ context.Context, limit int) ([]*Job, error) {
	m.mu.RLock()
	out := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		cp := *job
		out = append(out, &cp)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Job) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Close(context.Context) error { return nil }
