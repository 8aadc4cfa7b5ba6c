package routes

import (
	"net/http"

	"kindred_server/controllers"
	"kindred_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Dependencies holds everything the HTTP surface needs. Photos and Realtime are optional.
type Dependencies struct {
	Auth         controllers.Authenticator
	MatchMaker   *services.MatchMakerService
	MatchService *services.MatchService
	Profiles     *services.UserProfileService
	Photos       *services.PhotoService
	Realtime     http.Handler
}

// RegisterRoutes sets up the unauthenticated routes for the application
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
}

// NewRouter wires every route group and wraps the router in CORS and panic recovery.
func NewRouter(deps Dependencies) http.Handler {
	r := mux.NewRouter()

	RegisterRoutes(r)
	RegisterMatchRoutes(r, deps.Auth, deps.MatchMaker, deps.MatchService)
	RegisterUserProfileRoutes(r, deps.Auth, deps.Profiles)
	if deps.Photos != nil {
		RegisterS3Routes(r, deps.Auth, deps.Photos)
	}
	if deps.Realtime != nil {
		r.PathPrefix("/socket.io/").Handler(deps.Realtime)
	}

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)

	return controllers.Recover(corsHandler)
}
