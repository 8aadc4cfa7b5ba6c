package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"kindred_server/models"
	"kindred_server/services"
	"kindred_server/utils"
)

// UserProfileController handles requests for the caller's own profile
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// CreateUserProfile handles POST /api/profile
func (c *UserProfileController) CreateUserProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		log.Printf("Failed to decode request body: %v\n", err)
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	created, err := c.UserProfileService.CreateOwnProfile(r.Context(), CallerID(r.Context()), profile)
	if err != nil {
		writeServiceError(w, err, "Failed to add profile")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Profile added successfully",
		"profile": created,
	})
}

// GetOwnProfile handles GET /api/profile/me
func (c *UserProfileController) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := c.UserProfileService.GetOwnProfile(r.Context(), CallerID(r.Context()))
	if err != nil {
		writeServiceError(w, err, "Failed to fetch profile")
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

// UpdateOwnProfile handles PATCH /api/profile/me
func (c *UserProfileController) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	var update models.ProfileUpdate
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields() // id and isSearching are not editable
	if err := decoder.Decode(&update); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	updated, err := c.UserProfileService.UpdateOwnProfile(r.Context(), CallerID(r.Context()), update)
	if err != nil {
		writeServiceError(w, err, "Failed to update profile")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": updated,
	})
}
