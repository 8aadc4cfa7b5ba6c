package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"kindred_server/models"
)

// MemoryStore keeps profiles and matches in process memory. It is meant for
// local runs and tests: each method is atomic the way a single engine round trip is,
// and CreateMatch enforces the canonical-pair uniqueness constraint.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	matches  map[string]models.Match // keyed by pair key
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]models.Profile),
		matches:  make(map[string]models.Match),
		now:      time.Now,
	}
}

func (s *MemoryStore) SetSearching(ctx context.Context, profileID string, searching bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return ErrProfileNotFound
	}
	p.IsSearching = searching
	p.UpdatedAt = s.now().UTC()
	s.profiles[profileID] = p
	return nil
}

// FindSearchingCandidate scans in id order so results are deterministic in tests.
func (s *MemoryStore) FindSearchingCandidate(ctx context.Context, excludeID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := s.profiles[id]
		if id != excludeID && p.IsActive && p.IsSearching {
			return &p, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateMatch(ctx context.Context, m models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.PairKey(m.Profile1ID, m.Profile2ID)
	if _, exists := s.matches[key]; exists {
		return ErrMatchExists
	}
	m.PairKey = key
	s.matches[key] = m
	return nil
}

func (s *MemoryStore) ClearSearching(ctx context.Context, profile1ID, profile2ID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []string{profile1ID, profile2ID} {
		if _, ok := s.profiles[id]; !ok {
			return ErrProfileNotFound
		}
	}
	now := s.now().UTC()
	for _, id := range []string{profile1ID, profile2ID} {
		p := s.profiles[id]
		p.IsSearching = false
		p.UpdatedAt = now
		s.profiles[id] = p
	}
	return nil
}

func (s *MemoryStore) CreateProfile(ctx context.Context, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.ID]; exists {
		return ErrProfileExists
	}
	now := s.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.profiles[p.ID] = p
	return nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (s *MemoryStore) UpdateProfile(ctx context.Context, profileID string, update models.ProfileUpdate) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	update.Apply(&p)
	if !p.IsActive {
		p.IsSearching = false
	}
	p.UpdatedAt = s.now().UTC()
	s.profiles[profileID] = p
	return &p, nil
}

// ListMatches returns the profile's matches, newest first.
func (s *MemoryStore) ListMatches(ctx context.Context, profileID string) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]models.Match, 0)
	for _, m := range s.matches {
		if m.HasProfile(profileID) {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}
