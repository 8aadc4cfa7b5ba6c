package services_test

import (
	"context"
	"errors"
	"testing"

	"kindred_server/models"
	"kindred_server/services"
)

var errStorage = errors.New("storage unavailable")

// faultyStore wraps a Store and fails the configured operations.
type faultyStore struct {
	services.Store

	setSearchingErr error
	findErr         error
	createMatchErr  error
	clearErr        error

	// candidate, when set, is returned instead of consulting the wrapped store
	candidate *models.Profile

	writes int
}

func (f *faultyStore) SetSearching(ctx context.Context, id string, searching bool) error {
	if f.setSearchingErr != nil {
		return f.setSearchingErr
	}
	f.writes++
	return f.Store.SetSearching(ctx, id, searching)
}

func (f *faultyStore) FindSearchingCandidate(ctx context.Context, excludeID string) (*models.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.candidate != nil {
		return f.candidate, nil
	}
	return f.Store.FindSearchingCandidate(ctx, excludeID)
}

func (f *faultyStore) CreateMatch(ctx context.Context, m models.Match) error {
	if f.createMatchErr != nil {
		return f.createMatchErr
	}
	f.writes++
	return f.Store.CreateMatch(ctx, m)
}

func (f *faultyStore) ClearSearching(ctx context.Context, p1, p2 string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.writes++
	return f.Store.ClearSearching(ctx, p1, p2)
}

func seedProfile(t *testing.T, store services.Store, id string, active, searching bool) {
	t.Helper()
	p := models.Profile{ID: id, Name: "user " + id, IsActive: active, IsSearching: searching}
	if err := store.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func mustProfile(t *testing.T, store services.Store, id string) *models.Profile {
	t.Helper()
	p, err := store.GetProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("GetProfile(%s): %v", id, err)
	}
	return p
}

func mustMatches(t *testing.T, store services.Store, id string) []models.Match {
	t.Helper()
	m, err := store.ListMatches(context.Background(), id)
	if err != nil {
		t.Fatalf("ListMatches(%s): %v", id, err)
	}
	return m
}
