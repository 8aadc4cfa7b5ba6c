package routes

import (
	"kindred_server/controllers"
	"kindred_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for the caller's own profile
func RegisterUserProfileRoutes(r *mux.Router, auth controllers.Authenticator, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profile").Subrouter()
	profileRouter.Use(controllers.RequireAuth(auth))
	profileRouter.HandleFunc("", controller.CreateUserProfile).Methods("POST")
	profileRouter.HandleFunc("/me", controller.GetOwnProfile).Methods("GET")
	profileRouter.HandleFunc("/me", controller.UpdateOwnProfile).Methods("PATCH")
}
