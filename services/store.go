package services

import (
	"context"
	"errors"

	"kindred_server/models"
)

// Sentinel errors shared by every Store backend.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrMatchExists     = errors.New("a match for this pair already exists")
)

// Store is the storage engine contract RequestMatch and the profile endpoints depend on.
// Implementations coordinate concurrent callers only through the engine itself
// (conditional writes, unique constraints), never through process memory shared
// across server instances.
type Store interface {
	// SetSearching flips isSearching on one profile. ErrProfileNotFound if the row is missing.
	SetSearching(ctx context.Context, profileID string, searching bool) error
	// FindSearchingCandidate returns at most one active, searching profile other than
	// excludeID, capped by the engine. (nil, nil) when nobody is waiting.
	FindSearchingCandidate(ctx context.Context, excludeID string) (*models.Profile, error)
	// CreateMatch inserts m. ErrMatchExists when the canonical pair is already stored.
	CreateMatch(ctx context.Context, m models.Match) error
	// ClearSearching resets isSearching on both profiles.
	ClearSearching(ctx context.Context, profile1ID, profile2ID string) error

	CreateProfile(ctx context.Context, p models.Profile) error
	GetProfile(ctx context.Context, profileID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profileID string, update models.ProfileUpdate) (*models.Profile, error)
	ListMatches(ctx context.Context, profileID string) ([]models.Match, error)
}
