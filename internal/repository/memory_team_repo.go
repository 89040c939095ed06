package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryTeamRepository struct {
	mu    sync.RWMutex
	order []string
	teams map[string]Team
}

// NewMemoryTeamRepository keeps teams in process memory, in insertion order.
func NewMemoryTeamRepository(seed ...Team) TeamRepository {
	m := &memoryTeamRepository{teams: make(map[string]Team, len(seed))}
	for _, t := range seed {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		m.order = append(m.order, t.ID)
		m.teams[t.ID] = t
	}
	return m
}

func (m *memoryTeamRepository) FindAll(_ context.Context) ([]*Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	teams := make([]*Team, 0, len(m.order))
	for _, id := range m.order {
		t := m.teams[id]
		teams = append(teams, &t)
	}
	return teams, nil
}

func (m *memoryTeamRepository) Get(_ context.Context, id string) (*Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *memoryTeamRepository) Save(_ context.Context, team *Team) (*Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := *team
	if t.ID == "" {
		t.ID = uuid.NewString()
		m.order = append(m.order, t.ID)
	} else if _, ok := m.teams[t.ID]; !ok {
		return nil, ErrNotFound
	}

	m.teams[t.ID] = t
	return &t, nil
}

func (m *memoryTeamRepository) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.teams[id]; !ok {
		return ErrNotFound
	}

	delete(m.teams, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memoryTeamRepository) Ping(_ context.Context) error {
	return nil
}
