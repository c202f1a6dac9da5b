package service

import (
	"context"
	"sort"
	"sync"

	"github.com/Pledgebase/pledgebase/internal/domain"
)

// memContactStore evaluates predicates in memory with Predicate.Matches
type memContactStore struct {
	mu       sync.Mutex
	contacts []*domain.Contact
}

var _ domain.ContactRepository = (*memContactStore)(nil)

func (s *memContactStore) CreateContact(_ context.Context, c *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, c)
	return nil
}

func (s *memContactStore) UpdateContact(_ context.Context, c *domain.Contact, _ []*domain.ContactChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.contacts {
		if existing.ID == c.ID && existing.TeamID == c.TeamID {
			s.contacts[i] = c
			return nil
		}
	}
	return domain.NewNotFoundError("contact", c.ID)
}

func (s *memContactStore) DeleteContact(_ context.Context, teamID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.contacts {
		if c.ID == id && c.TeamID == teamID {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return domain.NewNotFoundError("contact", id)
}

func (s *memContactStore) SearchContacts(_ context.Context, teamID string, where domain.Predicate) ([]*domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.Contact{}
	for _, c := range s.contacts {
		if c.TeamID != teamID {
			continue
		}
		if where == nil || where.Matches(&domain.ContactSnapshot{Contact: c}) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memContactStore) CountContacts(ctx context.Context, teamID string, where domain.Predicate) (int, error) {
	contacts, err := s.SearchContacts(ctx, teamID, where)
	return len(contacts), err
}

func (s *memContactStore) ListChanges(context.Context, string, string) ([]*domain.ContactChange, error) {
	return nil, nil
}
