package controllers

import (
	"log"
	"net/http"

	"kindred_server/models"
	"kindred_server/services"
	"kindred_server/utils"
)

// MatchController struct
type MatchController struct {
	MatchMaker   *services.MatchMakerService
	MatchService *services.MatchService
}

// NewMatchController initializes the controller
func NewMatchController(matchMaker *services.MatchMakerService, matchService *services.MatchService) *MatchController {
	return &MatchController{MatchMaker: matchMaker, MatchService: matchService}
}

// RequestMatch handles POST /api/match/request: find or wait for a partner.
func (c *MatchController) RequestMatch(w http.ResponseWriter, r *http.Request) {
	callerID := CallerID(r.Context())
	log.Printf("🔍 Match requested by %s", callerID)

	outcome, err := c.MatchMaker.RequestMatch(r.Context(), callerID)
	if err != nil {
		writeServiceError(w, err, "Failed to find match")
		return
	}

	utils.WriteJSON(w, http.StatusOK, matchResponse(outcome))
}

func matchResponse(outcome models.MatchOutcome) models.MatchResponse {
	if outcome.Searching() || outcome.Match == nil {
		return models.MatchResponse{
			Status:  models.OutcomeSearching,
			Message: "Searching for a match. Check back soon!",
			UserID:  outcome.UserID,
		}
	}
	return models.MatchResponse{
		Status:  models.OutcomeMatched,
		Message: "Match found!",
		Match: &models.MatchPayload{
			ID:          outcome.Match.ID,
			MatchedUser: *outcome.Partner,
			MatchScore:  outcome.Match.MatchScore,
			CreatedAt:   outcome.Match.CreatedAt,
		},
	}
}

// GetMatchHistory handles GET /api/match/history
func (c *MatchController) GetMatchHistory(w http.ResponseWriter, r *http.Request) {
	matches, err := c.MatchService.GetMatchesForProfile(r.Context(), CallerID(r.Context()))
	if err != nil {
		writeServiceError(w, err, "Failed to fetch matches")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
	})
}
