package models

import (
	"errors"
	"time"
)

// ErrSelfMatch is returned when both sides of a pair are the same identity.
var ErrSelfMatch = errors.New("a profile cannot be matched with itself")

// Match records a successful pairing. Profile1ID < Profile2ID always holds.
type Match struct {
	PairKey    string      `dynamodbav:"pairKey" json:"-"`
	ID         string      `dynamodbav:"id" json:"id"`
	Profile1ID string      `dynamodbav:"profile1Id" json:"profile1Id"`
	Profile2ID string      `dynamodbav:"profile2Id" json:"profile2Id"`
	Status     MatchStatus `dynamodbav:"status" json:"status"`
	MatchScore float64     `dynamodbav:"matchScore" json:"matchScore"`
	CreatedAt  time.Time   `dynamodbav:"createdAt" json:"createdAt"`
}

// CanonicalPair orders two identities so the smaller one comes first.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// PairKey is the uniqueness key of the canonical pair.
func PairKey(a, b string) string {
	p1, p2 := CanonicalPair(a, b)
	return p1 + "#" + p2
}

// NewMatch builds a matched row for a and b in canonical order.
func NewMatch(id, a, b string, score float64, createdAt time.Time) (Match, error) {
	if a == b {
		return Match{}, ErrSelfMatch
	}
	p1, p2 := CanonicalPair(a, b)
	return Match{
		PairKey:    p1 + "#" + p2,
		ID:         id,
		Profile1ID: p1,
		Profile2ID: p2,
		Status:     MatchStatusMatched,
		MatchScore: score,
		CreatedAt:  createdAt.UTC(),
	}, nil
}

// HasProfile reports whether id is one of the two parties.
func (m Match) HasProfile(id string) bool {
	return m.Profile1ID == id || m.Profile2ID == id
}

// Other returns the party that is not id.
func (m Match) Other(id string) (string, bool) {
	switch id {
	case m.Profile1ID:
		return m.Profile2ID, true
	case m.Profile2ID:
		return m.Profile1ID, true
	}
	return "", false
}
