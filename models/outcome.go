package models

import "time"

// MatchOutcome is the result of one RequestMatch call.
// Status is OutcomeSearching or OutcomeMatched; Match is set only for the latter.
type MatchOutcome struct {
	Status  string
	UserID  string
	Match   *Match
	Partner *PublicProfile
}

// Searching reports whether the caller is still waiting for a partner.
func (o MatchOutcome) Searching() bool { return o.Status == OutcomeSearching }

// MatchResponse is the JSON body returned by the find-match endpoint.
type MatchResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	UserID  string        `json:"userId,omitempty"`
	Match   *MatchPayload `json:"match,omitempty"`
}

// MatchPayload describes a freshly created match from the caller's side.
type MatchPayload struct {
	ID          string        `json:"id"`
	MatchedUser PublicProfile `json:"matchedUser"`
	MatchScore  float64       `json:"matchScore"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// MatchWithProfile is a history entry: the match plus the other party's public profile.
type MatchWithProfile struct {
	Match
	MatchedUser *PublicProfile `json:"matchedUser,omitempty"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
