package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"kindred_server/services"
	"kindred_server/utils"
)

type contextKey string

const callerIDKey contextKey = "callerID"

// Authenticator resolves an Authorization header to the caller identity.
type Authenticator interface {
	Authenticate(authHeader string) (string, error)
}

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// WelcomeHandler provides a welcome message
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Kindred API."})
}

// RequireAuth rejects requests without a valid bearer credential and stores the
// caller identity in the request context.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerID, err := auth.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				log.Printf("[AUTH] ❌ REJECTED | Path=%s | %v", r.URL.Path, err)
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			ctx := context.WithValue(r.Context(), callerIDKey, callerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerID returns the identity stored by RequireAuth.
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(callerIDKey).(string)
	return id
}

// Recover converts a panic in any handler into the generic 500 body.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("🔥 [ERROR] panic on %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// writeServiceError maps service errors onto the HTTP error taxonomy.
// Storage error text is never echoed to the client.
func writeServiceError(w http.ResponseWriter, err error, failureMessage string) {
	var (
		depErr *services.DependencyError
		valErr *services.ValidationError
	)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized", "")
	// before the sentinels: a failed storage step stays a 500 whatever its cause
	case errors.As(err, &depErr):
		utils.WriteError(w, http.StatusInternalServerError, failureMessage, depErr.Details())
	case errors.As(err, &valErr):
		utils.WriteError(w, http.StatusBadRequest, valErr.Msg, "")
	case errors.Is(err, services.ErrProfileNotFound):
		utils.WriteError(w, http.StatusNotFound, "Profile not found", "")
	case errors.Is(err, services.ErrProfileExists):
		utils.WriteError(w, http.StatusConflict, "Profile already exists", "")
	default:
		log.Printf("🔥 [ERROR] %s: %v", failureMessage, err)
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}
