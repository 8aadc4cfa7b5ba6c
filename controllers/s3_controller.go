package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"kindred_server/services"
	"kindred_server/utils"
)

// PhotoController issues presigned URLs for profile photos
type PhotoController struct {
	PhotoService *services.PhotoService
}

// NewPhotoController creates a PhotoController
func NewPhotoController(photoService *services.PhotoService) *PhotoController {
	return &PhotoController{PhotoService: photoService}
}

// GeneratePresignedURL handles POST /api/photos/upload-url
func (c *PhotoController) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("Error decoding request body: %v", err)
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	url, key, err := c.PhotoService.GenerateUploadURL(r.Context(), CallerID(r.Context()), payload.FileName, payload.FileType)
	if err != nil {
		writeServiceError(w, err, "Failed to generate pre-signed URL")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"url": url, "fileName": key})
}

// GetPresignedReadURL handles POST /api/photos/read-url
func (c *PhotoController) GetPresignedReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Key == "" {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	url, err := c.PhotoService.GenerateReadURL(r.Context(), CallerID(r.Context()), payload.Key)
	if err != nil {
		writeServiceError(w, err, "Failed to generate read pre-signed URL")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
