package store

import (
	"context"
	"sync"

	"ncaablines/internal/model"
)

// Memory is an in-process gameline store. It is lost on exit.
type Memory struct {
	mu    sync.RWMutex
	lines map[model.Key]model.Gameline
}

func NewMemory() *Memory {
	return &Memory{lines: make(map[model.Key]model.Gameline)}
}

func (m *Memory) Upsert(_ context.Context, g model.Gameline) error {
	if err := g.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines[g.Key()] = g
	return nil
}

func (m *Memory) All(_ context.Context) ([]model.Gameline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]model.Gameline, 0, len(m.lines))
	for _, g := range m.lines {
		result = append(result, g)
	}
	sortLines(result)
	return result, nil
}

func (m *Memory) Get(_ context.Context, key model.Key) (model.Gameline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.lines[key]
	if !ok {
		return model.Gameline{}, notFound(key)
	}
	return g, nil
}

func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lines), nil
}
