package models

// MatchStatus is the lifecycle state of a Match row.
type MatchStatus string

// ✅ Match statuses
const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusMatched  MatchStatus = "matched"
	MatchStatusRejected MatchStatus = "rejected"
	MatchStatusBlocked  MatchStatus = "blocked"
)

// Valid reports whether s is one of the known statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusPending, MatchStatusMatched, MatchStatusRejected, MatchStatusBlocked:
		return true
	}
	return false
}

// ✅ RequestMatch outcomes
const (
	OutcomeSearching = "searching"
	OutcomeMatched   = "matched"
)

// PlaceholderMatchScore is written on every new Match until a scoring function exists.
const PlaceholderMatchScore = 0.85

// Default table names
const (
	ProfilesTable = "Profiles"
	MatchesTable  = "Matches"
)

// SearchPoolOpen is the sparse-index partition value carried by searching profiles.
const SearchPoolOpen = "open"

// DynamoDB secondary indexes
const (
	SearchPoolIndex = "searchPool-index"
	Profile1Index   = "profile1Id-index"
	Profile2Index   = "profile2Id-index"
)
