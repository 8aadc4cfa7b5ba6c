package routes

import (
	"kindred_server/controllers"
	"kindred_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up routes for S3-related operations
func RegisterS3Routes(r *mux.Router, auth controllers.Authenticator, photoService *services.PhotoService) {
	controller := controllers.NewPhotoController(photoService)

	photoRouter := r.PathPrefix("/api/photos").Subrouter()
	photoRouter.Use(controllers.RequireAuth(auth))
	photoRouter.HandleFunc("/upload-url", controller.GeneratePresignedURL).Methods("POST")
	photoRouter.HandleFunc("/read-url", controller.GetPresignedReadURL).Methods("POST")
}
