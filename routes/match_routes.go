package routes

import (
	"kindred_server/controllers"
	"kindred_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match-related operations under /api/match
func RegisterMatchRoutes(r *mux.Router, auth controllers.Authenticator, matchMaker *services.MatchMakerService, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchMaker, matchService)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.Use(controllers.RequireAuth(auth))
	matchRouter.HandleFunc("/request", controller.RequestMatch).Methods("POST")
	matchRouter.HandleFunc("/history", controller.GetMatchHistory).Methods("GET")

	// path used by existing mobile clients
	legacy := r.PathPrefix("/functions/v1").Subrouter()
	legacy.Use(controllers.RequireAuth(auth))
	legacy.HandleFunc("/find-match", controller.RequestMatch).Methods("POST")
}
