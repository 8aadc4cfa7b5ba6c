package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"kindred_server/models"
)

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

// WriteError writes the standard {error, details?} body.
func WriteError(w http.ResponseWriter, status int, message, details string) {
	WriteJSON(w, status, models.ErrorResponse{Error: message, Details: details})
}
