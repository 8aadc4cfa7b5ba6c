package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"kindred_server/models"
)

// MatchService reads the caller's match history.
type MatchService struct {
	Store Store
}

// GetMatchesForProfile returns the caller's matches, each with the other party's public profile.
func (s *MatchService) GetMatchesForProfile(ctx context.Context, callerID string) ([]models.MatchWithProfile, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}

	matches, err := s.Store.ListMatches(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}

	enriched := make([]models.MatchWithProfile, 0, len(matches))
	for _, m := range matches {
		entry := models.MatchWithProfile{Match: m}

		otherID, ok := m.Other(callerID)
		if !ok {
			continue
		}
		other, err := s.Store.GetProfile(ctx, otherID)
		switch {
		case err == nil:
			pub := other.Public()
			entry.MatchedUser = &pub
		case errors.Is(err, ErrProfileNotFound):
			// keep the match, the partner's profile is gone
		default:
			log.Printf("⚠️ [match] Failed to fetch profile %s for match %s: %v", otherID, m.ID, err)
		}
		enriched = append(enriched, entry)
	}

	log.Printf("✅ [match] Found %d matches for %s", len(enriched), callerID)
	return enriched, nil
}
