package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"kindred_server/models"
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// UserProfileService exposes the caller's own profile. Every method takes the
// authenticated identity; there is no way to address another user's row.
type UserProfileService struct {
	Store Store
}

// CreateOwnProfile bootstraps the caller's profile after sign-up. The id always comes
// from the credential, and the new profile starts active and not searching.
func (ups *UserProfileService) CreateOwnProfile(ctx context.Context, callerID string, profile models.Profile) (*models.Profile, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	if profile.ID != "" && profile.ID != callerID {
		return nil, &ValidationError{Msg: "profile id must match the authenticated user"}
	}
	if err := validateProfileFields(profile.Name, profile.Age); err != nil {
		return nil, err
	}
	for _, key := range profile.Photos {
		if !OwnsPhotoKey(callerID, key) {
			return nil, &ValidationError{Msg: fmt.Sprintf("photo %q is not in the caller's photo folder", key)}
		}
	}

	profile.ID = callerID
	profile.IsActive = true
	profile.IsSearching = false

	if err := ups.Store.CreateProfile(ctx, profile); err != nil {
		log.Printf("❌ [profile] Failed to create profile %s: %v", callerID, err)
		return nil, err
	}
	log.Printf("✅ [profile] Created profile %s", callerID)
	return ups.Store.GetProfile(ctx, callerID)
}

// GetOwnProfile returns the caller's profile.
func (ups *UserProfileService) GetOwnProfile(ctx context.Context, callerID string) (*models.Profile, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	return ups.Store.GetProfile(ctx, callerID)
}

// UpdateOwnProfile applies update to the caller's profile.
func (ups *UserProfileService) UpdateOwnProfile(ctx context.Context, callerID string, update models.ProfileUpdate) (*models.Profile, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	if update.Empty() {
		return nil, &ValidationError{Msg: "no updatable fields supplied"}
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, &ValidationError{Msg: "name cannot be empty"}
	}
	if update.Age != nil {
		if err := validateAge(*update.Age); err != nil {
			return nil, err
		}
	}
	if update.Photos != nil {
		for _, key := range *update.Photos {
			if !OwnsPhotoKey(callerID, key) {
				return nil, &ValidationError{Msg: fmt.Sprintf("photo %q is not in the caller's photo folder", key)}
			}
		}
	}

	updated, err := ups.Store.UpdateProfile(ctx, callerID, update)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			log.Printf("❌ [profile] Failed to update profile %s: %v", callerID, err)
		}
		return nil, err
	}
	return updated, nil
}

func validateProfileFields(name string, age int) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Msg: "name is required"}
	}
	if age != 0 {
		return validateAge(age)
	}
	return nil
}

func validateAge(age int) error {
	if age < 18 || age > 120 {
		return &ValidationError{Msg: fmt.Sprintf("age must be between 18 and 120, got %d", age)}
	}
	return nil
}
