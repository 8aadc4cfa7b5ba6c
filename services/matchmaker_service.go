package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"kindred_server/models"

	"github.com/google/uuid"
)

// MatchNotifier is told about every newly created match. Failures are logged only.
type MatchNotifier interface {
	MatchCreated(ctx context.Context, m models.Match) error
}

// MatchMakerService pairs callers who have announced they are searching.
// It holds no per-request state; all coordination goes through the Store.
type MatchMakerService struct {
	Store     Store
	Score     float64
	Notifiers []MatchNotifier

	newID func() string
	now   func() time.Time
}

// NewMatchMakerService returns a MatchMakerService writing score on every new match.
func NewMatchMakerService(store Store, score float64, notifiers ...MatchNotifier) *MatchMakerService {
	return &MatchMakerService{
		Store:     store,
		Score:     score,
		Notifiers: notifiers,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// RequestMatch runs the find-a-partner flow for callerID:
//
//  1. mark the caller as searching
//  2. look up one other active, searching profile
//  3. none: report Searching
//  4. canonicalise the pair
//  5. insert the match (the pair's uniqueness constraint arbitrates races)
//  6. clear both search flags, best effort
//  7. report Matched
//
// Step 1 is never undone: a caller left searching after a failure is exactly the
// state a retry needs.
func (s *MatchMakerService) RequestMatch(ctx context.Context, callerID string) (outcome models.MatchOutcome, err error) {
	if callerID == "" {
		return models.MatchOutcome{}, ErrUnauthorized
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("🔥 [matchmaker] panic while matching %s: %v", callerID, r)
			outcome, err = models.MatchOutcome{}, &InternalError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := s.Store.SetSearching(ctx, callerID, true); err != nil {
		log.Printf("❌ [matchmaker] Failed to mark %s as searching: %v", callerID, err)
		return models.MatchOutcome{}, &DependencyError{Step: StepAnnounce, Err: err}
	}

	candidate, err := s.Store.FindSearchingCandidate(ctx, callerID)
	if err != nil {
		log.Printf("❌ [matchmaker] Candidate lookup failed for %s: %v", callerID, err)
		return models.MatchOutcome{}, &DependencyError{Step: StepLookup, Err: err}
	}

	if candidate == nil {
		log.Printf("🔍 [matchmaker] No partner available for %s, waiting", callerID)
		return models.MatchOutcome{Status: models.OutcomeSearching, UserID: callerID}, nil
	}

	match, err := models.NewMatch(s.newID(), callerID, candidate.ID, s.Score, s.now())
	if err != nil {
		// the store returned the caller as its own candidate
		return models.MatchOutcome{}, &InternalError{Err: err}
	}

	if err := s.Store.CreateMatch(ctx, match); err != nil {
		if errors.Is(err, ErrMatchExists) {
			log.Printf("⚠️ [matchmaker] Pair %s already matched, %s stays searching", match.PairKey, callerID)
		} else {
			log.Printf("❌ [matchmaker] Failed to create match %s: %v", match.PairKey, err)
		}
		return models.MatchOutcome{}, &DependencyError{Step: StepCreate, Err: err}
	}

	if err := s.Store.ClearSearching(ctx, match.Profile1ID, match.Profile2ID); err != nil {
		slog.Warn("match created but search flags not cleared",
			"matchId", match.ID, "profile1Id", match.Profile1ID, "profile2Id", match.Profile2ID, "err", err)
	}

	log.Printf("✅ [matchmaker] Matched %s with %s (match %s)", match.Profile1ID, match.Profile2ID, match.ID)

	s.notify(ctx, match)

	partner := candidate.Public()
	return models.MatchOutcome{
		Status:  models.OutcomeMatched,
		UserID:  callerID,
		Match:   &match,
		Partner: &partner,
	}, nil
}

func (s *MatchMakerService) notify(ctx context.Context, m models.Match) {
	for _, n := range s.Notifiers {
		if err := n.MatchCreated(ctx, m); err != nil {
			slog.Warn("match notification failed", "matchId", m.ID, "err", err)
		}
	}
}
