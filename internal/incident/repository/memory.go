package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/incidentdesk/incident-service/internal/incident"
)

var (
	ErrNotFound  = errors.New("incident not found")
	ErrDuplicate = errors.New("incident with that issue number already exists")
)

// Repository is the persistence contract for incidents.
type Repository interface {
	List(ctx context.Context) ([]*incident.Incident, error)
	Insert(ctx context.Context, inc *incident.Incident) error
	Delete(ctx context.Context, issueNumber int64) error
	Update(ctx context.Context, issueNumber int64, fields map[string]interface{}) (*incident.Incident, error)
}

// MemoryRepo is an in-memory repository used for local runs without MongoDB
// and for unit tests. List returns incidents in insertion order.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []int64
	store map[int64]*incident.Incident
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[int64]*incident.Incident)}
}

func (m *MemoryRepo) List(ctx context.Context) ([]*incident.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*incident.Incident, 0, len(m.order))
	for _, n := range m.order {
		out = append(out, m.store[n].Clone())
	}
	return out, nil
}

func (m *MemoryRepo) Insert(ctx context.Context, inc *incident.Incident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[inc.IssueNumber]; ok {
		return ErrDuplicate
	}
	m.store[inc.IssueNumber] = inc.Clone()
	m.order = append(m.order, inc.IssueNumber)
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, issueNumber int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[issueNumber]; !ok {
		return ErrNotFound
	}
	delete(m.store, issueNumber)
	for i, n := range m.order {
		if n == issueNumber {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryRepo) Update(ctx context.Context, issueNumber int64, fields map[string]interface{}) (*incident.Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inc, ok := m.store[issueNumber]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range fields {
		if k == incident.IssueNumberField || k == incident.StorageIDField {
			continue
		}
		inc.Attributes[k] = v
	}
	return inc.Clone(), nil
}
