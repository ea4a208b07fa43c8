package profilestore

import (
	"sort"
	"time"

	"github.com/hochfrequenz/pinrun/internal/domain"
)

// Memory is an in-process store used when the on-disk database cannot be
// opened, and by tests. Contents are lost on exit.
type Memory struct {
	profiles map[string]*domain.LaunchProfile
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{profiles: make(map[string]*domain.LaunchProfile)}
}

func (m *Memory) Save(p *domain.LaunchProfile) error {
	copied := *p
	copied.UpdatedAt = time.Now()
	if existing, ok := m.profiles[p.Name]; ok {
		copied.CreatedAt = existing.CreatedAt
	} else {
		copied.CreatedAt = copied.UpdatedAt
	}
	m.profiles[p.Name] = &copied
	return nil
}

func (m *Memory) Get(name string) (*domain.LaunchProfile, error) {
	p, ok := m.profiles[name]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *Memory) List() ([]*domain.LaunchProfile, error) {
	var profiles []*domain.LaunchProfile
	for _, p := range m.profiles {
		if p.Transient {
			continue
		}
		copied := *p
		profiles = append(profiles, &copied)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

func (m *Memory) Delete(name string) error {
	if _, ok := m.profiles[name]; !ok {
		return ErrNotFound
	}
	delete(m.profiles, name)
	return nil
}

func (m *Memory) PurgeTransient(keep string) (int, error) {
	removed := 0
	for name, p := range m.profiles {
		if p.Transient && name != keep {
			delete(m.profiles, name)
			removed++
		}
	}
	return removed, nil
}

func (m *Memory) Close() error { return nil }
